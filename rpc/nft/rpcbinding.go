// Package nft contains RPC wrappers for the exchange NFT registry contract.
package nft

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep11"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Collection is a contract-specific nft.Collection type used by its methods.
type Collection struct {
	ID    *big.Int
	Owner util.Uint160
	Name  string
}

// Token is a contract-specific nft.Token type used by its methods.
type Token struct {
	ID           []byte
	Owner        util.Uint160
	CollectionID *big.Int
	MetadataURI  string
	Creator      util.Uint160
}

// TransferEvent represents "Transfer" event emitted by the contract.
type TransferEvent struct {
	From    util.Uint160
	To      util.Uint160
	Amount  *big.Int
	TokenID []byte
}

// CollectionCreatedEvent represents "CollectionCreated" event emitted by the contract.
type CollectionCreatedEvent struct {
	CollectionID *big.Int
	Owner        util.Uint160
	Name         string
}

// NFTMintedEvent represents "NFTMinted" event emitted by the contract.
type NFTMintedEvent struct {
	Owner        util.Uint160
	TokenID      []byte
	CollectionID *big.Int
	MetadataURI  string
}

// ApprovalEvent represents "Approval" event emitted by the contract.
type ApprovalEvent struct {
	Owner util.Uint160
	// Operator is zero if the approval is revoked.
	Operator util.Uint160
	TokenID  []byte
}

// ApprovalForAllEvent represents "ApprovalForAll" event emitted by the contract.
type ApprovalForAllEvent struct {
	Owner    util.Uint160
	Operator util.Uint160
	Approved bool
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	nep11.Invoker
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	nep11.Actor

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	nep11.NonDivisibleReader
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	nep11.BaseWriter
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{*nep11.NewNonDivisibleReader(invoker, hash), invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	var nep11ndt = nep11.NewNonDivisible(actor, hash)
	return &Contract{ContractReader{nep11ndt.NonDivisibleReader, actor, hash}, nep11ndt.BaseWriter, actor, hash}
}

// Name invokes `name` method of contract.
func (c *ContractReader) Name() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "name"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// LastCollectionID invokes `lastCollectionID` method of contract.
func (c *ContractReader) LastCollectionID() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "lastCollectionID"))
}

// GetCollection invokes `getCollection` method of contract.
func (c *ContractReader) GetCollection(collectionID *big.Int) (*Collection, error) {
	return itemToCollection(unwrap.Item(c.invoker.Call(c.hash, "getCollection", collectionID)))
}

// GetToken invokes `getToken` method of contract.
func (c *ContractReader) GetToken(tokenID []byte) (*Token, error) {
	return itemToToken(unwrap.Item(c.invoker.Call(c.hash, "getToken", tokenID)))
}

// GetApproved invokes `getApproved` method of contract. Zero hash is returned
// if there is no approved operator.
func (c *ContractReader) GetApproved(tokenID []byte) (util.Uint160, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "getApproved", tokenID))
	if err != nil {
		return util.Uint160{}, err
	}
	return itemToUint160(item)
}

// IsApprovedForAll invokes `isApprovedForAll` method of contract.
func (c *ContractReader) IsApprovedForAll(owner util.Uint160, operator util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isApprovedForAll", owner, operator))
}

// IsAuthorized invokes `isAuthorized` method of contract.
func (c *ContractReader) IsAuthorized(operator util.Uint160, tokenID []byte) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isAuthorized", operator, tokenID))
}

// TokensOfCollection invokes `tokensOfCollection` method of contract.
func (c *ContractReader) TokensOfCollection(collectionID *big.Int) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "tokensOfCollection", collectionID))
}

// TokensOfCollectionExpanded is similar to TokensOfCollection (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) TokensOfCollectionExpanded(collectionID *big.Int, _numOfIteratorItems int) ([][]byte, error) {
	return unwrap.ArrayOfBytes(c.invoker.CallAndExpandIterator(c.hash, "tokensOfCollection", _numOfIteratorItems, collectionID))
}

// CreateCollection creates a transaction invoking `createCollection` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateCollection(owner util.Uint160, name string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createCollection", owner, name)
}

// CreateCollectionTransaction creates a transaction invoking `createCollection` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateCollectionTransaction(owner util.Uint160, name string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createCollection", owner, name)
}

// CreateCollectionUnsigned creates a transaction invoking `createCollection` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateCollectionUnsigned(owner util.Uint160, name string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createCollection", nil, owner, name)
}

// Mint creates a transaction invoking `mint` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Mint(owner util.Uint160, collectionID *big.Int, metadataURI string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "mint", owner, collectionID, metadataURI)
}

// MintTransaction creates a transaction invoking `mint` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) MintTransaction(owner util.Uint160, collectionID *big.Int, metadataURI string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "mint", owner, collectionID, metadataURI)
}

// MintUnsigned creates a transaction invoking `mint` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) MintUnsigned(owner util.Uint160, collectionID *big.Int, metadataURI string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "mint", nil, owner, collectionID, metadataURI)
}

// Approve creates a transaction invoking `approve` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Approve(operator util.Uint160, tokenID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "approve", operator, tokenID)
}

// ApproveTransaction creates a transaction invoking `approve` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ApproveTransaction(operator util.Uint160, tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "approve", operator, tokenID)
}

// ApproveUnsigned creates a transaction invoking `approve` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ApproveUnsigned(operator util.Uint160, tokenID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "approve", nil, operator, tokenID)
}

// SetApprovalForAll creates a transaction invoking `setApprovalForAll` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetApprovalForAll(owner util.Uint160, operator util.Uint160, approved bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setApprovalForAll", owner, operator, approved)
}

// SetApprovalForAllTransaction creates a transaction invoking `setApprovalForAll` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetApprovalForAllTransaction(owner util.Uint160, operator util.Uint160, approved bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setApprovalForAll", owner, operator, approved)
}

// SetApprovalForAllUnsigned creates a transaction invoking `setApprovalForAll` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetApprovalForAllUnsigned(owner util.Uint160, operator util.Uint160, approved bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setApprovalForAll", nil, owner, operator, approved)
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

// itemToCollection converts stack item into *Collection.
func itemToCollection(item stackitem.Item, err error) (*Collection, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Collection)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Collection from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Collection) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
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
	res.Owner, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	res.Name, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	return nil
}

// itemToToken converts stack item into *Token.
func itemToToken(item stackitem.Item, err error) (*Token, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Token)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Token from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Token) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ID, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Owner, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	res.CollectionID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field CollectionID: %w", err)
	}

	index++
	res.MetadataURI, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field MetadataURI: %w", err)
	}

	index++
	res.Creator, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Creator: %w", err)
	}

	return nil
}

// TransferEventsFromApplicationLog retrieves a set of all emitted events
// with "Transfer" name from the provided [result.ApplicationLog].
func TransferEventsFromApplicationLog(log *result.ApplicationLog) ([]*TransferEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*TransferEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Transfer" {
				continue
			}
			event := new(TransferEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize TransferEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to TransferEvent or
// returns an error if it's not possible to do to so.
func (e *TransferEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	e.From, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}
	e.To, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}
	e.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	e.TokenID, err = arr[3].TryBytes()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}
	return nil
}

// CollectionCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "CollectionCreated" name from the provided [result.ApplicationLog].
func CollectionCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*CollectionCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*CollectionCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "CollectionCreated" {
				continue
			}
			event := new(CollectionCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize CollectionCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to CollectionCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *CollectionCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.CollectionID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field CollectionID: %w", err)
	}
	e.Owner, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}
	e.Name, err = itemToString(arr[2])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}
	return nil
}

// NFTMintedEventsFromApplicationLog retrieves a set of all emitted events
// with "NFTMinted" name from the provided [result.ApplicationLog].
func NFTMintedEventsFromApplicationLog(log *result.ApplicationLog) ([]*NFTMintedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*NFTMintedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "NFTMinted" {
				continue
			}
			event := new(NFTMintedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize NFTMintedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to NFTMintedEvent or
// returns an error if it's not possible to do to so.
func (e *NFTMintedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	e.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}
	e.TokenID, err = arr[1].TryBytes()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}
	e.CollectionID, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field CollectionID: %w", err)
	}
	e.MetadataURI, err = itemToString(arr[3])
	if err != nil {
		return fmt.Errorf("field MetadataURI: %w", err)
	}
	return nil
}

// ApprovalEventsFromApplicationLog retrieves a set of all emitted events
// with "Approval" name from the provided [result.ApplicationLog].
func ApprovalEventsFromApplicationLog(log *result.ApplicationLog) ([]*ApprovalEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ApprovalEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Approval" {
				continue
			}
			event := new(ApprovalEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ApprovalEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ApprovalEvent or
// returns an error if it's not possible to do to so.
func (e *ApprovalEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}
	e.Operator, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Operator: %w", err)
	}
	e.TokenID, err = arr[2].TryBytes()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}
	return nil
}

// ApprovalForAllEventsFromApplicationLog retrieves a set of all emitted events
// with "ApprovalForAll" name from the provided [result.ApplicationLog].
func ApprovalForAllEventsFromApplicationLog(log *result.ApplicationLog) ([]*ApprovalForAllEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ApprovalForAllEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ApprovalForAll" {
				continue
			}
			event := new(ApprovalForAllEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ApprovalForAllEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ApprovalForAllEvent or
// returns an error if it's not possible to do to so.
func (e *ApprovalForAllEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}
	e.Operator, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Operator: %w", err)
	}
	e.Approved, err = arr[2].TryBool()
	if err != nil {
		return fmt.Errorf("field Approved: %w", err)
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

func itemToString(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}
