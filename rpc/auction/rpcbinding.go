// Package auction contains RPC wrappers for the exchange Auction contract.
package auction

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Auction is a contract-specific auction.Auction type used by its methods.
type Auction struct {
	Seller        util.Uint160
	AssetContract util.Uint160
	TokenID       []byte
	StartingBid   *big.Int
	HighestBid    *big.Int
	// HighestBidder is zero if there are no bids.
	HighestBidder util.Uint160
	// Deadline is a block timestamp in milliseconds.
	Deadline *big.Int
	Active   bool
}

// AuctionCreatedEvent represents "AuctionCreated" event emitted by the contract.
type AuctionCreatedEvent struct {
	TokenID       []byte
	AssetContract util.Uint160
	StartingBid   *big.Int
	Deadline      *big.Int
}

// BidPlacedEvent represents "BidPlaced" event emitted by the contract.
type BidPlacedEvent struct {
	TokenID       []byte
	AssetContract util.Uint160
	Bidder        util.Uint160
	Amount        *big.Int
}

// AuctionFinalizedEvent represents "AuctionFinalized" event emitted by the contract.
type AuctionFinalizedEvent struct {
	TokenID       []byte
	AssetContract util.Uint160
	Winner        util.Uint160
	Amount        *big.Int
}

// AuctionCancelledEvent represents "AuctionCancelled" event emitted by the contract.
type AuctionCancelledEvent struct {
	TokenID       []byte
	AssetContract util.Uint160
}

// FundsWithdrawnEvent represents "FundsWithdrawn" event emitted by the contract.
type FundsWithdrawnEvent struct {
	Account util.Uint160
	Amount  *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// BidData returns NEP-17 transfer data placing a bid on the auction of the
// asset. Bids are GAS transfers to the contract carrying this data.
func BidData(assetContract util.Uint160, tokenID []byte) []any {
	return []any{assetContract, tokenID}
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// GetAuction invokes `getAuction` method of contract.
func (c *ContractReader) GetAuction(assetContract util.Uint160, tokenID []byte) (*Auction, error) {
	return itemToAuction(unwrap.Item(c.invoker.Call(c.hash, "getAuction", assetContract, tokenID)))
}

// GetAuctionKey invokes `getAuctionKey` method of contract.
func (c *ContractReader) GetAuctionKey(assetContract util.Uint160, tokenID []byte) ([]byte, error) {
	return unwrap.Bytes(c.invoker.Call(c.hash, "getAuctionKey", assetContract, tokenID))
}

// IsActive invokes `isActive` method of contract.
func (c *ContractReader) IsActive(assetContract util.Uint160, tokenID []byte) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isActive", assetContract, tokenID))
}

// PendingWithdrawals invokes `pendingWithdrawals` method of contract.
func (c *ContractReader) PendingWithdrawals(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "pendingWithdrawals", account))
}

// TotalPending invokes `totalPending` method of contract.
func (c *ContractReader) TotalPending() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalPending"))
}

// Auctions invokes `auctions` method of contract.
func (c *ContractReader) Auctions() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "auctions"))
}

// AuctionsExpanded is similar to Auctions (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) AuctionsExpanded(_numOfIteratorItems int) ([]*Auction, error) {
	items, err := unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "auctions", _numOfIteratorItems))
	if err != nil {
		return nil, err
	}
	return ItemsToAuctions(items)
}

// ItemsToAuctions converts iterator items returned by Auctions into auctions.
func ItemsToAuctions(items []stackitem.Item) ([]*Auction, error) {
	res := make([]*Auction, 0, len(items))
	for i := range items {
		a, err := itemToAuction(items[i], nil)
		if err != nil {
			return nil, fmt.Errorf("item #%d: %w", i, err)
		}
		res = append(res, a)
	}
	return res, nil
}

func (c *Contract) scriptForCreateAuction(seller util.Uint160, assetContract util.Uint160, tokenID []byte, startingBid *big.Int, duration *big.Int) ([]byte, error) {
	return smartcontract.CreateCallScript(c.hash, "createAuction", seller, assetContract, tokenID, startingBid, duration)
}

// CreateAuction creates a transaction invoking `createAuction` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateAuction(seller util.Uint160, assetContract util.Uint160, tokenID []byte, startingBid *big.Int, duration *big.Int) (util.Uint256, uint32, error) {
	script, err := c.scriptForCreateAuction(seller, assetContract, tokenID, startingBid, duration)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return c.actor.SendRun(script)
}

// CreateAuctionTransaction creates a transaction invoking `createAuction` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateAuctionTransaction(seller util.Uint160, assetContract util.Uint160, tokenID []byte, startingBid *big.Int, duration *big.Int) (*transaction.Transaction, error) {
	script, err := c.scriptForCreateAuction(seller, assetContract, tokenID, startingBid, duration)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeRun(script)
}

// CreateAuctionUnsigned creates a transaction invoking `createAuction` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateAuctionUnsigned(seller util.Uint160, assetContract util.Uint160, tokenID []byte, startingBid *big.Int, duration *big.Int) (*transaction.Transaction, error) {
	script, err := c.scriptForCreateAuction(seller, assetContract, tokenID, startingBid, duration)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeUnsignedRun(script, nil)
}

// FinalizeAuction creates a transaction invoking `finalizeAuction` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) FinalizeAuction(assetContract util.Uint160, tokenID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "finalizeAuction", assetContract, tokenID)
}

// FinalizeAuctionTransaction creates a transaction invoking `finalizeAuction` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) FinalizeAuctionTransaction(assetContract util.Uint160, tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "finalizeAuction", assetContract, tokenID)
}

// FinalizeAuctionUnsigned creates a transaction invoking `finalizeAuction` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) FinalizeAuctionUnsigned(assetContract util.Uint160, tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "finalizeAuction", nil, assetContract, tokenID)
}

// CancelAuction creates a transaction invoking `cancelAuction` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CancelAuction(assetContract util.Uint160, tokenID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "cancelAuction", assetContract, tokenID)
}

// CancelAuctionTransaction creates a transaction invoking `cancelAuction` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CancelAuctionTransaction(assetContract util.Uint160, tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "cancelAuction", assetContract, tokenID)
}

// CancelAuctionUnsigned creates a transaction invoking `cancelAuction` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CancelAuctionUnsigned(assetContract util.Uint160, tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "cancelAuction", nil, assetContract, tokenID)
}

// WithdrawFunds creates a transaction invoking `withdrawFunds` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) WithdrawFunds(account util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdrawFunds", account)
}

// WithdrawFundsTransaction creates a transaction invoking `withdrawFunds` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawFundsTransaction(account util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdrawFunds", account)
}

// WithdrawFundsUnsigned creates a transaction invoking `withdrawFunds` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawFundsUnsigned(account util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdrawFunds", nil, account)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// itemToAuction converts stack item into *Auction.
func itemToAuction(item stackitem.Item, err error) (*Auction, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Auction)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Auction from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Auction) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 8 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Seller, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	index++
	res.AssetContract, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field AssetContract: %w", err)
	}

	index++
	res.TokenID, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}

	index++
	res.StartingBid, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field StartingBid: %w", err)
	}

	index++
	res.HighestBid, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field HighestBid: %w", err)
	}

	index++
	res.HighestBidder, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field HighestBidder: %w", err)
	}

	index++
	res.Deadline, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Deadline: %w", err)
	}

	index++
	res.Active, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Active: %w", err)
	}

	return nil
}

// AuctionCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "AuctionCreated" name from the provided [result.ApplicationLog].
func AuctionCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*AuctionCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AuctionCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "AuctionCreated" {
				continue
			}
			event := new(AuctionCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AuctionCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AuctionCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *AuctionCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	e.TokenID, err = arr[0].TryBytes()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}
	e.AssetContract, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field AssetContract: %w", err)
	}
	e.StartingBid, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field StartingBid: %w", err)
	}
	e.Deadline, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Deadline: %w", err)
	}
	return nil
}

// BidPlacedEventsFromApplicationLog retrieves a set of all emitted events
// with "BidPlaced" name from the provided [result.ApplicationLog].
func BidPlacedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BidPlacedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*BidPlacedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "BidPlaced" {
				continue
			}
			event := new(BidPlacedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize BidPlacedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to BidPlacedEvent or
// returns an error if it's not possible to do to so.
func (e *BidPlacedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	e.TokenID, err = arr[0].TryBytes()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}
	e.AssetContract, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field AssetContract: %w", err)
	}
	e.Bidder, err = itemToUint160(arr[2])
	if err != nil {
		return fmt.Errorf("field Bidder: %w", err)
	}
	e.Amount, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	return nil
}

// AuctionFinalizedEventsFromApplicationLog retrieves a set of all emitted events
// with "AuctionFinalized" name from the provided [result.ApplicationLog].
func AuctionFinalizedEventsFromApplicationLog(log *result.ApplicationLog) ([]*AuctionFinalizedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AuctionFinalizedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "AuctionFinalized" {
				continue
			}
			event := new(AuctionFinalizedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AuctionFinalizedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AuctionFinalizedEvent or
// returns an error if it's not possible to do to so.
func (e *AuctionFinalizedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	e.TokenID, err = arr[0].TryBytes()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}
	e.AssetContract, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field AssetContract: %w", err)
	}
	e.Winner, err = itemToUint160(arr[2])
	if err != nil {
		return fmt.Errorf("field Winner: %w", err)
	}
	e.Amount, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	return nil
}

// AuctionCancelledEventsFromApplicationLog retrieves a set of all emitted events
// with "AuctionCancelled" name from the provided [result.ApplicationLog].
func AuctionCancelledEventsFromApplicationLog(log *result.ApplicationLog) ([]*AuctionCancelledEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AuctionCancelledEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "AuctionCancelled" {
				continue
			}
			event := new(AuctionCancelledEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AuctionCancelledEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AuctionCancelledEvent or
// returns an error if it's not possible to do to so.
func (e *AuctionCancelledEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.TokenID, err = arr[0].TryBytes()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}
	e.AssetContract, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field AssetContract: %w", err)
	}
	return nil
}

// FundsWithdrawnEventsFromApplicationLog retrieves a set of all emitted events
// with "FundsWithdrawn" name from the provided [result.ApplicationLog].
func FundsWithdrawnEventsFromApplicationLog(log *result.ApplicationLog) ([]*FundsWithdrawnEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*FundsWithdrawnEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "FundsWithdrawn" {
				continue
			}
			event := new(FundsWithdrawnEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize FundsWithdrawnEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to FundsWithdrawnEvent or
// returns an error if it's not possible to do to so.
func (e *FundsWithdrawnEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.Account, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}
	e.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	return nil
}

func eventFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

// itemToUint160 decodes script hash, null item is decoded as zero hash.
func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}
