package marketplace_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/nft-exchange-contract/common"
	"github.com/nspcc-dev/nft-exchange-contract/contracts/marketplace/marketconst"
	"github.com/nspcc-dev/nft-exchange-contract/internal/contracttest"
	marketrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/marketplace"
	"github.com/stretchr/testify/require"
)

const (
	metadataURI = "ipfs://QmTzQ1JRkWErjk39mryYw2WVaphAZNAREyMchXzYQ7c15n"

	price = 5 * contracttest.GAS
)

type env struct {
	*contracttest.Exchange

	nft    *neotest.ContractInvoker
	market *neotest.ContractInvoker

	seller  neotest.Signer
	tokenID []byte
}

func newEnv(t *testing.T) *env {
	e := contracttest.NewExchange(t)
	seller := e.NewAccount(t)
	return &env{
		Exchange: e,
		nft:      e.CommitteeInvoker(e.NFT),
		market:   e.CommitteeInvoker(e.Marketplace),
		seller:   seller,
		tokenID:  contracttest.Mint(t, e.Executor, e.NFT, seller, metadataURI),
	}
}

func (v *env) list(t *testing.T) (int64, util.Uint256) {
	v.nft.WithSigners(v.seller).Invoke(t, stackitem.Null{}, "approve", v.Marketplace, v.tokenID)

	var id int64
	h := v.market.WithSigners(v.seller).InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Equal(t, 1, len(stack))
		n, err := stack[0].TryInteger()
		require.NoError(t, err)
		id = n.Int64()
	}, "listItem", v.seller.ScriptHash(), v.NFT, v.tokenID, price)
	return id, h
}

func (v *env) buy(t *testing.T, buyer neotest.Signer, itemID int64, amount int64) util.Uint256 {
	return contracttest.GASInvoker(t, v.Executor, buyer).Invoke(t, true, "transfer",
		buyer.ScriptHash(), v.Marketplace, amount, itemID)
}

func (v *env) buyFail(t *testing.T, buyer neotest.Signer, amount int64, data any, msg string) {
	contracttest.GASInvoker(t, v.Executor, buyer).InvokeFail(t, msg, "transfer",
		buyer.ScriptHash(), v.Marketplace, amount, data)
}

func (v *env) getItem(t *testing.T, itemID int64) *marketrpc.MarketItem {
	s, err := v.market.TestInvoke(t, "getItem", itemID)
	require.NoError(t, err)

	var item marketrpc.MarketItem
	require.NoError(t, item.FromStackItem(s.Pop().Item()))
	return &item
}

// checkBalance ensures the contract holds exactly the pending withdrawals.
func (v *env) checkBalance(t *testing.T) {
	total := contracttest.TestInt(t, v.market, "totalPending")
	require.Equal(t, big.NewInt(total), contracttest.GASBalance(v.Executor, v.Marketplace))
}

func TestMarketplace_List(t *testing.T) {
	v := newEnv(t)
	other := v.NewAccount(t)

	t.Run("invalid asset contract", func(t *testing.T) {
		v.market.WithSigners(v.seller).InvokeFail(t, marketconst.InvalidAddressError, "listItem",
			v.seller.ScriptHash(), []byte{1, 2, 3}, v.tokenID, price)
	})
	t.Run("seller witness is required", func(t *testing.T) {
		v.market.WithSigners(other).InvokeFail(t, common.ErrOwnerWitnessFailed, "listItem",
			v.seller.ScriptHash(), v.NFT, v.tokenID, price)
	})
	t.Run("not the asset owner", func(t *testing.T) {
		v.market.WithSigners(other).InvokeFail(t, marketconst.NotAssetOwnerError, "listItem",
			other.ScriptHash(), v.NFT, v.tokenID, price)
	})
	t.Run("invalid price", func(t *testing.T) {
		v.market.WithSigners(v.seller).InvokeFail(t, marketconst.InvalidPriceError, "listItem",
			v.seller.ScriptHash(), v.NFT, v.tokenID, 0)
	})
	t.Run("not approved", func(t *testing.T) {
		v.market.WithSigners(v.seller).InvokeFail(t, marketconst.NotAuthorizedError, "listItem",
			v.seller.ScriptHash(), v.NFT, v.tokenID, price)
	})

	v.market.Invoke(t, 0, "lastItemID")
	v.market.InvokeFail(t, marketconst.NotFoundError, "getItem", 1)

	id, h := v.list(t)
	require.Equal(t, int64(1), id)
	contracttest.CheckEvent(t, v.Executor, h, v.Marketplace, "MarketItemCreated",
		id, v.NFT, v.tokenID, v.seller.ScriptHash(), price)
	contracttest.CheckEvent(t, v.Executor, h, v.NFT, "Transfer",
		v.seller.ScriptHash(), v.Marketplace, int64(1), v.tokenID)

	v.nft.Invoke(t, v.Marketplace.BytesBE(), "ownerOf", v.tokenID)
	v.market.Invoke(t, 1, "lastItemID")

	item := v.getItem(t, id)
	require.Equal(t, big.NewInt(id), item.ID)
	require.Equal(t, v.NFT, item.AssetContract)
	require.Equal(t, v.tokenID, item.TokenID)
	require.Equal(t, v.seller.ScriptHash(), item.Seller)
	require.Equal(t, v.seller.ScriptHash(), item.Owner)
	require.Equal(t, big.NewInt(price), item.Price)
	require.False(t, item.Sold)
	require.True(t, item.Active)

	items, err := marketrpc.ItemsToMarketItems(contracttest.TestIterate(t, v.market, "items"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, item, items[0])

	ids := contracttest.TestIterate(t, v.market, "itemsOf", v.seller.ScriptHash())
	require.Len(t, ids, 1)
	n, err := ids[0].TryInteger()
	require.NoError(t, err)
	require.Equal(t, id, n.Int64())

	require.Empty(t, contracttest.TestIterate(t, v.market, "itemsOf", other.ScriptHash()))
	v.market.InvokeFail(t, marketconst.InvalidAddressError, "itemsOf", []byte{1, 2, 3})
}

func TestMarketplace_Purchase(t *testing.T) {
	v := newEnv(t)
	buyer := v.NewAccount(t)
	late := v.NewAccount(t)

	id, _ := v.list(t)

	t.Run("only GAS", func(t *testing.T) {
		neoInv := v.NewInvoker(v.NativeHash(t, nativenames.Neo), v.Committee)
		neoInv.InvokeFail(t, marketconst.OnlyGASError, "transfer",
			v.Committee.ScriptHash(), v.Marketplace, 1, id)
	})
	t.Run("missing data", func(t *testing.T) {
		v.buyFail(t, buyer, price, nil, marketconst.InvalidPurchaseDataError)
	})
	t.Run("unknown item", func(t *testing.T) {
		v.buyFail(t, buyer, price, id+1, marketconst.NotFoundError)
	})
	t.Run("underpaid", func(t *testing.T) {
		v.buyFail(t, buyer, price-1, id, marketconst.PriceMismatchError)
	})
	t.Run("overpaid", func(t *testing.T) {
		v.buyFail(t, buyer, price+1, id, marketconst.PriceMismatchError)
	})

	h := v.buy(t, buyer, id, price)
	contracttest.CheckEvent(t, v.Executor, h, v.Marketplace, "MarketItemSold", id, buyer.ScriptHash(), price)
	contracttest.CheckEvent(t, v.Executor, h, v.NFT, "Transfer",
		v.Marketplace, buyer.ScriptHash(), int64(1), v.tokenID)

	v.nft.Invoke(t, buyer.ScriptHash().BytesBE(), "ownerOf", v.tokenID)

	item := v.getItem(t, id)
	require.Equal(t, buyer.ScriptHash(), item.Owner)
	require.Equal(t, v.seller.ScriptHash(), item.Seller)
	require.True(t, item.Sold)
	require.False(t, item.Active)

	v.market.Invoke(t, price, "pendingWithdrawals", v.seller.ScriptHash())
	v.market.Invoke(t, 0, "pendingWithdrawals", buyer.ScriptHash())
	v.checkBalance(t)

	t.Run("already sold", func(t *testing.T) {
		v.buyFail(t, late, price, id, marketconst.NotActiveError)
	})
}

func TestMarketplace_Cancel(t *testing.T) {
	v := newEnv(t)
	other := v.NewAccount(t)
	buyer := v.NewAccount(t)

	id, _ := v.list(t)

	v.market.WithSigners(v.seller).InvokeFail(t, marketconst.NotFoundError, "cancelListing", id+1)
	v.market.WithSigners(other).InvokeFail(t, marketconst.NotSellerError, "cancelListing", id)

	h := v.market.WithSigners(v.seller).Invoke(t, stackitem.Null{}, "cancelListing", id)
	contracttest.CheckEvent(t, v.Executor, h, v.Marketplace, "MarketItemCancelled", id)
	v.nft.Invoke(t, v.seller.ScriptHash().BytesBE(), "ownerOf", v.tokenID)

	item := v.getItem(t, id)
	require.False(t, item.Active)
	require.False(t, item.Sold)

	v.market.WithSigners(v.seller).InvokeFail(t, marketconst.NotActiveError, "cancelListing", id)
	v.buyFail(t, buyer, price, id, marketconst.NotActiveError)

	// Relisting creates a new item.
	next, _ := v.list(t)
	require.Equal(t, id+1, next)
	v.buy(t, buyer, next, price)
	v.market.WithSigners(v.seller).InvokeFail(t, marketconst.NotActiveError, "cancelListing", next)
	require.Len(t, contracttest.TestIterate(t, v.market, "itemsOf", v.seller.ScriptHash()), 2)
}

func TestMarketplace_Withdraw(t *testing.T) {
	v := newEnv(t)
	buyer := v.NewAccount(t)

	id, _ := v.list(t)
	v.buy(t, buyer, id, price)

	t.Run("no funds", func(t *testing.T) {
		v.market.WithSigners(buyer).InvokeFail(t, common.ErrNoFunds, "withdrawFunds", buyer.ScriptHash())
	})
	t.Run("account witness is required", func(t *testing.T) {
		v.market.WithSigners(buyer).InvokeFail(t, common.ErrOwnerWitnessFailed, "withdrawFunds", v.seller.ScriptHash())
	})

	before := contracttest.GASBalance(v.Executor, v.seller.ScriptHash())
	h := v.market.WithSigners(v.seller).Invoke(t, stackitem.Null{}, "withdrawFunds", v.seller.ScriptHash())
	contracttest.CheckEvent(t, v.Executor, h, v.Marketplace, "FundsWithdrawn", v.seller.ScriptHash(), price)
	require.Equal(t, 1, contracttest.GASBalance(v.Executor, v.seller.ScriptHash()).Cmp(before))

	v.market.Invoke(t, 0, "pendingWithdrawals", v.seller.ScriptHash())
	v.market.Invoke(t, 0, "totalPending")
	v.checkBalance(t)
	require.Equal(t, 0, contracttest.GASBalance(v.Executor, v.Marketplace).Sign())
}

func TestMarketplace_UnexpectedAsset(t *testing.T) {
	v := newEnv(t)

	v.nft.WithSigners(v.seller).InvokeFail(t, marketconst.UnexpectedAssetError,
		"transfer", v.Marketplace, v.tokenID, nil)
	v.nft.Invoke(t, v.seller.ScriptHash().BytesBE(), "ownerOf", v.tokenID)
}

func TestMarketplace_Update(t *testing.T) {
	e := contracttest.NewExecutor(t)
	ctr := contracttest.Compile(t, e, contracttest.MarketplacePath)
	e.DeployContract(t, ctr, nil)

	c := e.CommitteeInvoker(ctr.Hash)
	acc := c.NewAccount(t)

	nefBytes, err := ctr.NEF.Bytes()
	require.NoError(t, err)
	rawManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)

	c.Invoke(t, common.Version, "version")
	c.WithSigners(acc).InvokeFail(t, "only committee can update contract",
		"update", nefBytes, rawManifest, nil)
	c.InvokeFail(t, common.ErrAlreadyUpdated, "update", nefBytes, rawManifest, nil)
}
