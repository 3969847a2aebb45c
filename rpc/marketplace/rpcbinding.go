// Package marketplace contains RPC wrappers for the exchange Marketplace contract.
package marketplace

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

// MarketItem is a contract-specific marketplace.MarketItem type used by its methods.
type MarketItem struct {
	ID            *big.Int
	AssetContract util.Uint160
	TokenID       []byte
	Seller        util.Uint160
	Owner         util.Uint160
	Price         *big.Int
	Sold          bool
	Active        bool
}

// MarketItemCreatedEvent represents "MarketItemCreated" event emitted by the contract.
type MarketItemCreatedEvent struct {
	ItemID        *big.Int
	AssetContract util.Uint160
	TokenID       []byte
	Seller        util.Uint160
	Price         *big.Int
}

// MarketItemSoldEvent represents "MarketItemSold" event emitted by the contract.
type MarketItemSoldEvent struct {
	ItemID *big.Int
	Buyer  util.Uint160
	Price  *big.Int
}

// MarketItemCancelledEvent represents "MarketItemCancelled" event emitted by the contract.
type MarketItemCancelledEvent struct {
	ItemID *big.Int
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

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// GetItem invokes `getItem` method of contract.
func (c *ContractReader) GetItem(itemID *big.Int) (*MarketItem, error) {
	return itemToMarketItem(unwrap.Item(c.invoker.Call(c.hash, "getItem", itemID)))
}

// LastItemID invokes `lastItemID` method of contract.
func (c *ContractReader) LastItemID() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "lastItemID"))
}

// PendingWithdrawals invokes `pendingWithdrawals` method of contract.
func (c *ContractReader) PendingWithdrawals(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "pendingWithdrawals", account))
}

// TotalPending invokes `totalPending` method of contract.
func (c *ContractReader) TotalPending() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalPending"))
}

// Items invokes `items` method of contract.
func (c *ContractReader) Items() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "items"))
}

// ItemsExpanded is similar to Items (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ItemsExpanded(_numOfIteratorItems int) ([]*MarketItem, error) {
	items, err := unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "items", _numOfIteratorItems))
	if err != nil {
		return nil, err
	}
	return ItemsToMarketItems(items)
}

// ItemsOf invokes `itemsOf` method of contract.
func (c *ContractReader) ItemsOf(seller util.Uint160) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "itemsOf", seller))
}

// ItemsOfExpanded is similar to ItemsOf (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ItemsOfExpanded(seller util.Uint160, _numOfIteratorItems int) ([]*big.Int, error) {
	items, err := unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "itemsOf", _numOfIteratorItems, seller))
	if err != nil {
		return nil, err
	}
	res := make([]*big.Int, 0, len(items))
	for i := range items {
		id, err := items[i].TryInteger()
		if err != nil {
			return nil, fmt.Errorf("item #%d: %w", i, err)
		}
		res = append(res, id)
	}
	return res, nil
}

// ItemsToMarketItems converts iterator items returned by Items into market items.
func ItemsToMarketItems(items []stackitem.Item) ([]*MarketItem, error) {
	res := make([]*MarketItem, 0, len(items))
	for i := range items {
		m, err := itemToMarketItem(items[i], nil)
		if err != nil {
			return nil, fmt.Errorf("item #%d: %w", i, err)
		}
		res = append(res, m)
	}
	return res, nil
}

func (c *Contract) scriptForListItem(seller util.Uint160, assetContract util.Uint160, tokenID []byte, price *big.Int) ([]byte, error) {
	return smartcontract.CreateCallScript(c.hash, "listItem", seller, assetContract, tokenID, price)
}

// ListItem creates a transaction invoking `listItem` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ListItem(seller util.Uint160, assetContract util.Uint160, tokenID []byte, price *big.Int) (util.Uint256, uint32, error) {
	script, err := c.scriptForListItem(seller, assetContract, tokenID, price)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return c.actor.SendRun(script)
}

// ListItemTransaction creates a transaction invoking `listItem` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ListItemTransaction(seller util.Uint160, assetContract util.Uint160, tokenID []byte, price *big.Int) (*transaction.Transaction, error) {
	script, err := c.scriptForListItem(seller, assetContract, tokenID, price)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeRun(script)
}

// ListItemUnsigned creates a transaction invoking `listItem` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ListItemUnsigned(seller util.Uint160, assetContract util.Uint160, tokenID []byte, price *big.Int) (*transaction.Transaction, error) {
	script, err := c.scriptForListItem(seller, assetContract, tokenID, price)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeUnsignedRun(script, nil)
}

// CancelListing creates a transaction invoking `cancelListing` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CancelListing(itemID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "cancelListing", itemID)
}

// CancelListingTransaction creates a transaction invoking `cancelListing` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CancelListingTransaction(itemID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "cancelListing", itemID)
}

// CancelListingUnsigned creates a transaction invoking `cancelListing` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CancelListingUnsigned(itemID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "cancelListing", nil, itemID)
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

// itemToMarketItem converts stack item into *MarketItem.
func itemToMarketItem(item stackitem.Item, err error) (*MarketItem, error) {
	if err != nil {
		return nil, err
	}
	var res = new(MarketItem)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of MarketItem from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *MarketItem) FromStackItem(item stackitem.Item) error {
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
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
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
	res.Seller, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}

	index++
	res.Owner, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	res.Price, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Price: %w", err)
	}

	index++
	res.Sold, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Sold: %w", err)
	}

	index++
	res.Active, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Active: %w", err)
	}

	return nil
}

// MarketItemCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "MarketItemCreated" name from the provided [result.ApplicationLog].
func MarketItemCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*MarketItemCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*MarketItemCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "MarketItemCreated" {
				continue
			}
			event := new(MarketItemCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize MarketItemCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to MarketItemCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *MarketItemCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 5)
	if err != nil {
		return err
	}

	e.ItemID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ItemID: %w", err)
	}
	e.AssetContract, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field AssetContract: %w", err)
	}
	e.TokenID, err = arr[2].TryBytes()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}
	e.Seller, err = itemToUint160(arr[3])
	if err != nil {
		return fmt.Errorf("field Seller: %w", err)
	}
	e.Price, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field Price: %w", err)
	}
	return nil
}

// MarketItemSoldEventsFromApplicationLog retrieves a set of all emitted events
// with "MarketItemSold" name from the provided [result.ApplicationLog].
func MarketItemSoldEventsFromApplicationLog(log *result.ApplicationLog) ([]*MarketItemSoldEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*MarketItemSoldEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "MarketItemSold" {
				continue
			}
			event := new(MarketItemSoldEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize MarketItemSoldEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to MarketItemSoldEvent or
// returns an error if it's not possible to do to so.
func (e *MarketItemSoldEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.ItemID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ItemID: %w", err)
	}
	e.Buyer, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Buyer: %w", err)
	}
	e.Price, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Price: %w", err)
	}
	return nil
}

// MarketItemCancelledEventsFromApplicationLog retrieves a set of all emitted events
// with "MarketItemCancelled" name from the provided [result.ApplicationLog].
func MarketItemCancelledEventsFromApplicationLog(log *result.ApplicationLog) ([]*MarketItemCancelledEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*MarketItemCancelledEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "MarketItemCancelled" {
				continue
			}
			event := new(MarketItemCancelledEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize MarketItemCancelledEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to MarketItemCancelledEvent or
// returns an error if it's not possible to do to so.
func (e *MarketItemCancelledEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 1)
	if err != nil {
		return err
	}

	e.ItemID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ItemID: %w", err)
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
