package auction

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/nft-exchange-contract/common"
	"github.com/nspcc-dev/nft-exchange-contract/contracts/auction/auctionconst"
)

// Auction is a stored state of the auction for a single asset. The record
// stays in the storage after the auction is closed and is replaced by the
// next auction of the same asset.
type Auction struct {
	Seller        interop.Hash160
	AssetContract interop.Hash160
	TokenID       []byte
	StartingBid   int
	HighestBid    int
	HighestBidder interop.Hash160
	// Deadline is a block timestamp in milliseconds.
	Deadline int
	Active   bool
}

const (
	prefixAuction = 'a'
	prefixCustody = 'c'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("auction contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("auction contract updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// OnNEP11Payment accepts the asset only while it is being taken into custody
// by CreateAuction.
func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	key := getAuctionKey(runtime.GetCallingScriptHash(), tokenID)
	if storage.Get(ctx, append([]byte{prefixCustody}, key...)) == nil {
		panic(auctionconst.UnexpectedAssetError)
	}
}

// OnNEP17Payment places a bid. Only GAS is accepted, data must be an array of
// asset contract hash and token ID naming an active auction.
//
// The bid must not be less than the starting bid and must exceed the current
// highest bid. The previous highest bidder is credited with their bid and can
// take it back with WithdrawFunds.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if !common.IsGASPayment() {
		panic(auctionconst.OnlyGASError)
	}
	if !common.IsValidAddress(from) {
		panic(auctionconst.InvalidAddressError)
	}
	if data == nil {
		panic(auctionconst.InvalidBidDataError)
	}
	args := data.([]any)
	if len(args) != 2 {
		panic(auctionconst.InvalidBidDataError)
	}
	assetContract := args[0].(interop.Hash160)
	tokenID := args[1].([]byte)
	if !common.IsValidAddress(assetContract) || len(tokenID) == 0 {
		panic(auctionconst.InvalidBidDataError)
	}

	ctx := storage.GetContext()
	key := getAuctionKey(assetContract, tokenID)
	a := getActiveAuction(ctx, key)

	if runtime.GetTime() >= a.Deadline {
		panic(auctionconst.EndedError)
	}
	if amount < a.StartingBid {
		panic(auctionconst.BelowStartingBidError)
	}
	if amount <= a.HighestBid {
		panic(auctionconst.BidTooLowError)
	}

	if a.HighestBid > 0 {
		common.Credit(ctx, a.HighestBidder, a.HighestBid)
	}
	a.HighestBid = amount
	a.HighestBidder = from
	putAuction(ctx, key, a)

	runtime.Notify("BidPlaced", tokenID, assetContract, from, amount)
}

// CreateAuction opens an auction for the asset. The seller must own the asset
// and approve this contract for it in the registry beforehand. The asset is
// moved to the contract until the auction is finalized or cancelled.
// Duration is set in seconds.
func CreateAuction(seller, assetContract interop.Hash160, tokenID []byte, startingBid, duration int) {
	if !common.IsValidAddress(seller) || !common.IsValidAddress(assetContract) {
		panic(auctionconst.InvalidAddressError)
	}
	common.CheckOwnerWitness(seller)

	ctx := storage.GetContext()
	key := getAuctionKey(assetContract, tokenID)
	data := storage.Get(ctx, append([]byte{prefixAuction}, key...))
	if data != nil && std.Deserialize(data.([]byte)).(Auction).Active {
		panic(auctionconst.AlreadyExistsError)
	}

	owner := contract.Call(assetContract, "ownerOf", contract.ReadOnly, tokenID).(interop.Hash160)
	if !common.BytesEqual(owner, seller) {
		panic(auctionconst.NotAssetOwnerError)
	}
	if startingBid <= 0 {
		panic(auctionconst.InvalidStartingBidError)
	}
	if duration <= 0 {
		panic(auctionconst.InvalidDurationError)
	}

	self := runtime.GetExecutingScriptHash()
	if !contract.Call(assetContract, "isAuthorized", contract.ReadOnly, self, tokenID).(bool) {
		panic(auctionconst.NotAuthorizedError)
	}

	custodyKey := append([]byte{prefixCustody}, key...)
	storage.Put(ctx, custodyKey, 1)
	transferAsset(assetContract, self, tokenID)
	storage.Delete(ctx, custodyKey)

	deadline := runtime.GetTime() + duration*1000
	putAuction(ctx, key, Auction{
		Seller:        seller,
		AssetContract: assetContract,
		TokenID:       tokenID,
		StartingBid:   startingBid,
		Deadline:      deadline,
		Active:        true,
	})

	runtime.Notify("AuctionCreated", tokenID, assetContract, startingBid, deadline)
}

// FinalizeAuction closes the auction after its deadline. It can be invoked
// by anyone. The asset goes to the highest bidder and the seller is credited
// with the highest bid. Without bids the asset is returned to the seller.
func FinalizeAuction(assetContract interop.Hash160, tokenID []byte) {
	ctx := storage.GetContext()
	key := getAuctionKey(assetContract, tokenID)
	a := getActiveAuction(ctx, key)
	if runtime.GetTime() < a.Deadline {
		panic(auctionconst.NotEndedError)
	}

	a.Active = false
	putAuction(ctx, key, a)

	recipient := a.Seller
	if a.HighestBid > 0 {
		recipient = a.HighestBidder
		common.Credit(ctx, a.Seller, a.HighestBid)
	}
	transferAsset(a.AssetContract, recipient, a.TokenID)

	runtime.Notify("AuctionFinalized", tokenID, assetContract, recipient, a.HighestBid)
}

// CancelAuction closes the auction without bids and returns the asset to
// the seller. Requires seller witness.
func CancelAuction(assetContract interop.Hash160, tokenID []byte) {
	ctx := storage.GetContext()
	key := getAuctionKey(assetContract, tokenID)
	a := getActiveAuction(ctx, key)
	if !runtime.CheckWitness(a.Seller) {
		panic(auctionconst.NotSellerError)
	}
	if a.HighestBid > 0 {
		panic(auctionconst.HasBidsError)
	}

	a.Active = false
	putAuction(ctx, key, a)
	transferAsset(a.AssetContract, a.Seller, a.TokenID)

	runtime.Notify("AuctionCancelled", tokenID, assetContract)
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

// GetAuction returns the last auction of the asset, active or not.
func GetAuction(assetContract interop.Hash160, tokenID []byte) Auction {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, append([]byte{prefixAuction}, getAuctionKey(assetContract, tokenID)...))
	if data == nil {
		panic(auctionconst.NotFoundError)
	}
	return std.Deserialize(data.([]byte)).(Auction)
}

// GetAuctionKey returns the key identifying auctions of the asset.
func GetAuctionKey(assetContract interop.Hash160, tokenID []byte) []byte {
	return getAuctionKey(assetContract, tokenID)
}

// IsActive checks whether there is an open auction for the asset.
func IsActive(assetContract interop.Hash160, tokenID []byte) bool {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, append([]byte{prefixAuction}, getAuctionKey(assetContract, tokenID)...))
	if data == nil {
		return false
	}
	return std.Deserialize(data.([]byte)).(Auction).Active
}

// Auctions returns iterator over all stored auctions.
func Auctions() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{prefixAuction}, storage.ValuesOnly|storage.DeserializeValues)
}

func getAuctionKey(assetContract interop.Hash160, tokenID []byte) []byte {
	return crypto.Sha256(append([]byte(assetContract), tokenID...))
}

func getActiveAuction(ctx storage.Context, key []byte) Auction {
	data := storage.Get(ctx, append([]byte{prefixAuction}, key...))
	if data == nil {
		panic(auctionconst.NotFoundError)
	}
	a := std.Deserialize(data.([]byte)).(Auction)
	if !a.Active {
		panic(auctionconst.NotFoundError)
	}
	return a
}

func putAuction(ctx storage.Context, key []byte, a Auction) {
	common.SetSerialized(ctx, append([]byte{prefixAuction}, key...), a)
}

func transferAsset(assetContract, to interop.Hash160, tokenID []byte) {
	if !contract.Call(assetContract, "transfer", contract.All, to, tokenID, nil).(bool) {
		panic(auctionconst.AssetTransferFailedError)
	}
}
