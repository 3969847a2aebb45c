package marketplace

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/nft-exchange-contract/common"
	"github.com/nspcc-dev/nft-exchange-contract/contracts/marketplace/marketconst"
)

// MarketItem is a fixed-price listing of a single asset.
type MarketItem struct {
	ID            int
	AssetContract interop.Hash160
	TokenID       []byte
	Seller        interop.Hash160
	// Owner is the seller while the item is listed and the buyer after sale.
	Owner  interop.Hash160
	Price  int
	Sold   bool
	Active bool
}

const (
	prefixItem       = 'i'
	prefixSellerItem = 's'
	prefixCustody    = 'c'
	lastItemKey      = "n"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("marketplace contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("marketplace contract updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// OnNEP11Payment accepts the asset only while it is being listed.
func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	key := getCustodyKey(runtime.GetCallingScriptHash(), tokenID)
	if storage.Get(ctx, key) == nil {
		panic(marketconst.UnexpectedAssetError)
	}
}

// OnNEP17Payment purchases the item. Only GAS is accepted, data must be the
// item ID and the amount must be equal to the item price. The seller is
// credited with the price and can take it with WithdrawFunds.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if !common.IsGASPayment() {
		panic(marketconst.OnlyGASError)
	}
	if !common.IsValidAddress(from) {
		panic(marketconst.InvalidAddressError)
	}
	if data == nil {
		panic(marketconst.InvalidPurchaseDataError)
	}
	itemID := data.(int)

	ctx := storage.GetContext()
	item := getItem(ctx, itemID)
	if !item.Active {
		panic(marketconst.NotActiveError)
	}
	if amount != item.Price {
		panic(marketconst.PriceMismatchError)
	}

	item.Active = false
	item.Sold = true
	item.Owner = from
	putItem(ctx, item)
	common.Credit(ctx, item.Seller, item.Price)

	transferAsset(item.AssetContract, from, item.TokenID)

	runtime.Notify("MarketItemSold", itemID, from, amount)
}

// ListItem puts the asset on sale for the price and returns the item ID.
// The seller must own the asset and approve this contract for it in the
// registry beforehand. The asset is moved to the contract until it is sold
// or the listing is cancelled.
func ListItem(seller, assetContract interop.Hash160, tokenID []byte, price int) int {
	if !common.IsValidAddress(seller) || !common.IsValidAddress(assetContract) {
		panic(marketconst.InvalidAddressError)
	}
	common.CheckOwnerWitness(seller)

	owner := contract.Call(assetContract, "ownerOf", contract.ReadOnly, tokenID).(interop.Hash160)
	if !common.BytesEqual(owner, seller) {
		panic(marketconst.NotAssetOwnerError)
	}
	if price <= 0 {
		panic(marketconst.InvalidPriceError)
	}

	self := runtime.GetExecutingScriptHash()
	if !contract.Call(assetContract, "isAuthorized", contract.ReadOnly, self, tokenID).(bool) {
		panic(marketconst.NotAuthorizedError)
	}

	ctx := storage.GetContext()
	custodyKey := getCustodyKey(assetContract, tokenID)
	storage.Put(ctx, custodyKey, 1)
	transferAsset(assetContract, self, tokenID)
	storage.Delete(ctx, custodyKey)

	id := common.GetInt(ctx, lastItemKey) + 1
	storage.Put(ctx, lastItemKey, id)
	putItem(ctx, MarketItem{
		ID:            id,
		AssetContract: assetContract,
		TokenID:       tokenID,
		Seller:        seller,
		Owner:         seller,
		Price:         price,
		Active:        true,
	})
	storage.Put(ctx, append(append([]byte{prefixSellerItem}, seller...), getItemKey(id)...), id)

	runtime.Notify("MarketItemCreated", id, assetContract, tokenID, seller, price)
	return id
}

// CancelListing removes the item from sale and returns the asset to the
// seller. Requires seller witness.
func CancelListing(itemID int) {
	ctx := storage.GetContext()
	item := getItem(ctx, itemID)
	if !item.Active {
		panic(marketconst.NotActiveError)
	}
	if !runtime.CheckWitness(item.Seller) {
		panic(marketconst.NotSellerError)
	}

	item.Active = false
	putItem(ctx, item)
	transferAsset(item.AssetContract, item.Seller, item.TokenID)

	runtime.Notify("MarketItemCancelled", itemID)
}

// WithdrawFunds sends the whole pending balance of the account to it.
// Requires account witness.
func WithdrawFunds(account interop.Hash160) {
	common.CheckOwnerWitness(account)

	ctx := storage.GetContext()
	amount := common.Withdraw(ctx, account)

	runtime.Notify("FundsWithdrawn", account, amount)
}

// PendingWithdrawals returns GAS amount the account can withdraw.
func PendingWithdrawals(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.PendingOf(ctx, account)
}

// TotalPending returns the sum of all pending withdrawals.
func TotalPending() int {
	ctx := storage.GetReadOnlyContext()
	return common.TotalPending(ctx)
}

// GetItem returns market item by ID.
func GetItem(itemID int) MarketItem {
	ctx := storage.GetReadOnlyContext()
	return getItem(ctx, itemID)
}

// LastItemID returns ID of the most recently listed item or 0.
func LastItemID() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, lastItemKey)
}

// Items returns iterator over all market items.
func Items() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{prefixItem}, storage.ValuesOnly|storage.DeserializeValues)
}

// ItemsOf returns iterator over IDs of items listed by the seller.
func ItemsOf(seller interop.Hash160) iterator.Iterator {
	if !common.IsValidAddress(seller) {
		panic(marketconst.InvalidAddressError)
	}
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{prefixSellerItem}, seller...), storage.ValuesOnly)
}

func getItem(ctx storage.Context, itemID int) MarketItem {
	data := storage.Get(ctx, append([]byte{prefixItem}, getItemKey(itemID)...))
	if data == nil {
		panic(marketconst.NotFoundError)
	}
	return std.Deserialize(data.([]byte)).(MarketItem)
}

func putItem(ctx storage.Context, item MarketItem) {
	common.SetSerialized(ctx, append([]byte{prefixItem}, getItemKey(item.ID)...), item)
}

// getItemKey returns fixed-size key of the item so that per-seller prefix
// searches never overlap.
func getItemKey(itemID int) []byte {
	return crypto.Ripemd160(convert.ToBytes(itemID))
}

func getCustodyKey(assetContract interop.Hash160, tokenID []byte) []byte {
	return append([]byte{prefixCustody}, crypto.Sha256(append([]byte(assetContract), tokenID...))...)
}

func transferAsset(assetContract, to interop.Hash160, tokenID []byte) {
	if !contract.Call(assetContract, "transfer", contract.All, to, tokenID, nil).(bool) {
		panic(marketconst.AssetTransferFailedError)
	}
}
