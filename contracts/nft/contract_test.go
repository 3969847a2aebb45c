package nft_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/nft-exchange-contract/common"
	"github.com/nspcc-dev/nft-exchange-contract/contracts/nft/nftconst"
	"github.com/nspcc-dev/nft-exchange-contract/internal/contracttest"
	"github.com/stretchr/testify/require"
)

const metadataURI = "ipfs://QmTzQ1JRkWErjk39mryYw2WVaphAZNAREyMchXzYQ7c15n"

func newNFTInvoker(t *testing.T) *neotest.ContractInvoker {
	e := contracttest.NewExecutor(t)
	h := contracttest.DeployNFT(t, e, "Exchange NFT", "EXNFT")
	return e.CommitteeInvoker(h)
}

func createCollection(t *testing.T, c *neotest.ContractInvoker, owner neotest.Signer, name string) int64 {
	var id int64
	c.WithSigners(owner).InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		v, err := stack[0].TryInteger()
		require.NoError(t, err)
		id = v.Int64()
	}, "createCollection", owner.ScriptHash(), name)
	return id
}

func mint(t *testing.T, c *neotest.ContractInvoker, owner neotest.Signer, collectionID int64) ([]byte, util.Uint256) {
	var tokenID []byte
	h := c.WithSigners(owner).InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		v, err := stack[0].TryBytes()
		require.NoError(t, err)
		tokenID = v
	}, "mint", owner.ScriptHash(), collectionID, metadataURI)
	return tokenID, h
}

func TestNFT_Deploy(t *testing.T) {
	c := newNFTInvoker(t)

	c.Invoke(t, "Exchange NFT", "name")
	c.Invoke(t, "EXNFT", "symbol")
	c.Invoke(t, 0, "decimals")
	c.Invoke(t, 0, "totalSupply")
	c.Invoke(t, 0, "lastCollectionID")
	c.Invoke(t, common.Version, "version")
}

func TestNFT_CreateCollection(t *testing.T) {
	c := newNFTInvoker(t)
	owner := c.NewAccount(t)
	other := c.NewAccount(t)

	t.Run("owner witness is required", func(t *testing.T) {
		c.WithSigners(other).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"createCollection", owner.ScriptHash(), "art")
	})
	t.Run("empty name", func(t *testing.T) {
		c.WithSigners(owner).InvokeFail(t, nftconst.EmptyCollectionNameError,
			"createCollection", owner.ScriptHash(), "")
	})

	h := c.WithSigners(owner).Invoke(t, 1, "createCollection", owner.ScriptHash(), "art")
	contracttest.CheckEvent(t, c.Executor, h, c.Hash, "CollectionCreated", int64(1), owner.ScriptHash(), "art")

	c.WithSigners(other).Invoke(t, 2, "createCollection", other.ScriptHash(), "photo")
	c.Invoke(t, 2, "lastCollectionID")

	s, err := c.TestInvoke(t, "getCollection", 2)
	require.NoError(t, err)
	fields := s.Pop().Array()
	require.Equal(t, big.NewInt(2), fields[0].Value())
	require.Equal(t, other.ScriptHash().BytesBE(), fields[1].Value())
	require.Equal(t, []byte("photo"), fields[2].Value())

	c.InvokeFail(t, nftconst.CollectionNotFoundError, "getCollection", 3)
}

func TestNFT_Mint(t *testing.T) {
	c := newNFTInvoker(t)
	owner := c.NewAccount(t)
	other := c.NewAccount(t)

	collectionID := createCollection(t, c, owner, "art")

	t.Run("empty metadata URI", func(t *testing.T) {
		c.WithSigners(owner).InvokeFail(t, nftconst.EmptyMetadataURIError,
			"mint", owner.ScriptHash(), collectionID, "")
	})
	t.Run("not the collection owner", func(t *testing.T) {
		c.WithSigners(other).InvokeFail(t, nftconst.NotCollectionOwnerError,
			"mint", other.ScriptHash(), collectionID, metadataURI)
	})
	t.Run("missing collection", func(t *testing.T) {
		c.WithSigners(owner).InvokeFail(t, nftconst.CollectionNotFoundError,
			"mint", owner.ScriptHash(), collectionID+1, metadataURI)
	})
	t.Run("owner witness is required", func(t *testing.T) {
		c.WithSigners(other).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"mint", owner.ScriptHash(), collectionID, metadataURI)
	})

	first, h := mint(t, c, owner, collectionID)
	require.Len(t, first, nftconst.TokenIDSize)
	contracttest.CheckEvent(t, c.Executor, h, c.Hash, "NFTMinted", owner.ScriptHash(), first, collectionID, metadataURI)
	contracttest.CheckEvent(t, c.Executor, h, c.Hash, "Transfer", nil, owner.ScriptHash(), int64(1), first)

	second, _ := mint(t, c, owner, collectionID)
	require.NotEqual(t, first, second)

	c.Invoke(t, 2, "totalSupply")
	c.Invoke(t, 2, "balanceOf", owner.ScriptHash())
	c.Invoke(t, 0, "balanceOf", other.ScriptHash())
	c.Invoke(t, owner.ScriptHash().BytesBE(), "ownerOf", first)

	ids := contracttest.TestIterate(t, c, "tokensOfCollection", collectionID)
	require.ElementsMatch(t, []stackitem.Item{stackitem.Make(first), stackitem.Make(second)}, ids)

	ids = contracttest.TestIterate(t, c, "tokensOf", owner.ScriptHash())
	require.ElementsMatch(t, []stackitem.Item{stackitem.Make(first), stackitem.Make(second)}, ids)

	ids = contracttest.TestIterate(t, c, "tokens")
	require.Len(t, ids, 2)

	s, err := c.TestInvoke(t, "getToken", first)
	require.NoError(t, err)
	fields := s.Pop().Array()
	require.Equal(t, first, fields[0].Value())
	require.Equal(t, owner.ScriptHash().BytesBE(), fields[1].Value())
	require.Equal(t, big.NewInt(collectionID), fields[2].Value())
	require.Equal(t, []byte(metadataURI), fields[3].Value())
	require.Equal(t, owner.ScriptHash().BytesBE(), fields[4].Value())

	s, err = c.TestInvoke(t, "properties", first)
	require.NoError(t, err)
	props := s.Pop().Value().([]stackitem.MapElement)
	require.Len(t, props, 4)

	c.InvokeFail(t, nftconst.NotFoundError, "ownerOf", []byte("unknown"))
}

func TestNFT_Transfer(t *testing.T) {
	c := newNFTInvoker(t)
	owner := c.NewAccount(t)
	other := c.NewAccount(t)

	tokenID, _ := mint(t, c, owner, createCollection(t, c, owner, "art"))

	t.Run("not witnessed", func(t *testing.T) {
		c.WithSigners(other).Invoke(t, false, "transfer", other.ScriptHash(), tokenID, nil)
		c.Invoke(t, owner.ScriptHash().BytesBE(), "ownerOf", tokenID)
	})
	t.Run("unknown token", func(t *testing.T) {
		c.WithSigners(owner).InvokeFail(t, nftconst.NotFoundError,
			"transfer", other.ScriptHash(), []byte("unknown"), nil)
	})

	h := c.WithSigners(owner).Invoke(t, true, "transfer", other.ScriptHash(), tokenID, nil)
	contracttest.CheckEvent(t, c.Executor, h, c.Hash, "Transfer", owner.ScriptHash(), other.ScriptHash(), int64(1), tokenID)
	c.Invoke(t, other.ScriptHash().BytesBE(), "ownerOf", tokenID)
	c.Invoke(t, 0, "balanceOf", owner.ScriptHash())
	c.Invoke(t, 1, "balanceOf", other.ScriptHash())
	require.Empty(t, contracttest.TestIterate(t, c, "tokensOf", owner.ScriptHash()))
}

func TestNFT_TransferToContract(t *testing.T) {
	c := newNFTInvoker(t)
	owner := c.NewAccount(t)
	payeeHash := contracttest.Deploy(t, c.Executor, contracttest.PayeePath, nil)
	payee := c.CommitteeInvoker(payeeHash)

	tokenID, _ := mint(t, c, owner, createCollection(t, c, owner, "art"))

	payee.Invoke(t, stackitem.Null{}, "setRejecting", true, false)
	c.WithSigners(owner).InvokeFail(t, "NEP-11 payment rejected",
		"transfer", payeeHash, tokenID, []byte("data"))
	c.Invoke(t, owner.ScriptHash().BytesBE(), "ownerOf", tokenID)

	payee.Invoke(t, stackitem.Null{}, "setRejecting", false, false)
	c.WithSigners(owner).Invoke(t, true, "transfer", payeeHash, tokenID, []byte("data"))
	s, err := payee.TestInvoke(t, "get")
	require.NoError(t, err)
	call := s.Pop().Array()
	require.Equal(t, owner.ScriptHash().BytesBE(), call[0].Value())
	require.Equal(t, tokenID, call[1].Value())
	require.Equal(t, []byte("data"), call[2].Value())
}

func TestNFT_Approval(t *testing.T) {
	c := newNFTInvoker(t)
	owner := c.NewAccount(t)
	operator := c.NewAccount(t)
	receiver := c.NewAccount(t)

	collectionID := createCollection(t, c, owner, "art")
	tokenID, _ := mint(t, c, owner, collectionID)

	c.Invoke(t, true, "isAuthorized", owner.ScriptHash(), tokenID)
	c.Invoke(t, false, "isAuthorized", operator.ScriptHash(), tokenID)
	c.Invoke(t, stackitem.Null{}, "getApproved", tokenID)

	t.Run("owner witness is required", func(t *testing.T) {
		c.WithSigners(operator).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"approve", operator.ScriptHash(), tokenID)
		c.WithSigners(operator).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"setApprovalForAll", owner.ScriptHash(), operator.ScriptHash(), true)
	})

	h := c.WithSigners(owner).Invoke(t, stackitem.Null{}, "approve", operator.ScriptHash(), tokenID)
	contracttest.CheckEvent(t, c.Executor, h, c.Hash, "Approval", owner.ScriptHash(), operator.ScriptHash(), tokenID)
	c.Invoke(t, operator.ScriptHash().BytesBE(), "getApproved", tokenID)
	s, err := c.TestInvoke(t, "getApproved", tokenID)
	require.NoError(t, err)
	require.Equal(t, stackitem.ByteArrayT, s.Pop().Item().Type())
	c.Invoke(t, true, "isAuthorized", operator.ScriptHash(), tokenID)

	t.Run("revoke", func(t *testing.T) {
		c.WithSigners(owner).Invoke(t, stackitem.Null{}, "approve", nil, tokenID)
		c.Invoke(t, false, "isAuthorized", operator.ScriptHash(), tokenID)
		c.WithSigners(owner).Invoke(t, stackitem.Null{}, "approve", operator.ScriptHash(), tokenID)
	})

	// Transfer clears single-token approval.
	c.WithSigners(owner).Invoke(t, true, "transfer", receiver.ScriptHash(), tokenID, nil)
	c.Invoke(t, stackitem.Null{}, "getApproved", tokenID)
	c.Invoke(t, false, "isAuthorized", operator.ScriptHash(), tokenID)

	h = c.WithSigners(receiver).Invoke(t, stackitem.Null{}, "setApprovalForAll",
		receiver.ScriptHash(), operator.ScriptHash(), true)
	contracttest.CheckEvent(t, c.Executor, h, c.Hash, "ApprovalForAll", receiver.ScriptHash(), operator.ScriptHash(), true)
	c.Invoke(t, true, "isApprovedForAll", receiver.ScriptHash(), operator.ScriptHash())
	c.Invoke(t, true, "isAuthorized", operator.ScriptHash(), tokenID)

	c.WithSigners(receiver).Invoke(t, stackitem.Null{}, "setApprovalForAll",
		receiver.ScriptHash(), operator.ScriptHash(), false)
	c.Invoke(t, false, "isApprovedForAll", receiver.ScriptHash(), operator.ScriptHash())
	c.Invoke(t, false, "isAuthorized", operator.ScriptHash(), tokenID)
}

func TestNFT_Update(t *testing.T) {
	e := contracttest.NewExecutor(t)
	ctr := contracttest.Compile(t, e, contracttest.NFTPath)
	e.DeployContract(t, ctr, []any{"Exchange NFT", "EXNFT"})

	c := e.CommitteeInvoker(ctr.Hash)
	acc := c.NewAccount(t)

	nefBytes, err := ctr.NEF.Bytes()
	require.NoError(t, err)
	rawManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)

	c.WithSigners(acc).InvokeFail(t, "only committee can update contract",
		"update", nefBytes, rawManifest, nil)
	c.InvokeFail(t, common.ErrAlreadyUpdated, "update", nefBytes, rawManifest, nil)
}
