package nft

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
	"github.com/nspcc-dev/nft-exchange-contract/contracts/nft/nftconst"
)

type (
	// Collection groups tokens minted by the collection owner.
	Collection struct {
		ID    int
		Owner interop.Hash160
		Name  string
	}

	// Token is a stored state of the minted token.
	Token struct {
		ID           []byte
		Owner        interop.Hash160
		CollectionID int
		MetadataURI  string
		Creator      interop.Hash160
	}

	// approval keeps the operator allowed to transfer a single token.
	approval struct {
		Operator interop.Hash160
	}
)

const (
	// prefixTotalSupply contains total supply of minted tokens.
	prefixTotalSupply byte = 0x00
	// prefixBalance contains map from owner to their balance.
	prefixBalance byte = 0x01
	// prefixAccountToken contains map from (owner + token key) to token ID.
	prefixAccountToken byte = 0x02
	// prefixCollection contains map from collection key to Collection.
	prefixCollection byte = 0x10
	// prefixLastCollection contains the last created collection ID.
	prefixLastCollection byte = 0x11
	// prefixCollectionToken contains map from (collection key + token key) to token ID.
	prefixCollectionToken byte = 0x12
	// prefixToken contains map from token key to Token.
	prefixToken byte = 0x20
	// prefixApproval contains map from token key to the approved operator.
	prefixApproval byte = 0x30
	// prefixOperator contains map from (owner + operator) to approval flag.
	prefixOperator byte = 0x31
)

const (
	nameKey   = "name"
	symbolKey = "symbol"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	name, symbol := "", nftconst.Symbol
	if data != nil {
		args := data.([]any)
		if len(args) > 0 {
			name = args[0].(string)
		}
		if len(args) > 1 {
			symbol = args[1].(string)
		}
	}

	storage.Put(ctx, []byte{prefixTotalSupply}, 0)
	storage.Put(ctx, nameKey, name)
	storage.Put(ctx, symbolKey, symbol)

	runtime.Log("nft contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("nft contract updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// Name returns the registry name set on deploy.
func Name() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, nameKey).(string)
}

// Symbol returns the token symbol set on deploy.
func Symbol() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, symbolKey).(string)
}

// Decimals returns token decimals, tokens are non-divisible.
func Decimals() int {
	return 0
}

// TotalSupply returns the overall number of minted tokens.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return getTotalSupply(ctx)
}

// BalanceOf returns the overall number of tokens owned by the specified owner.
func BalanceOf(owner interop.Hash160) int {
	if !common.IsValidAddress(owner) {
		panic(nftconst.InvalidOwnerError)
	}
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, append([]byte{prefixBalance}, owner...))
}

// OwnerOf returns the owner of the specified token.
func OwnerOf(tokenID []byte) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	t := getTokenWithKey(ctx, getTokenKey(tokenID))
	return t.Owner
}

// Properties returns collection name, metadata URI, collection ID and creator
// of the specified token.
func Properties(tokenID []byte) map[string]any {
	ctx := storage.GetReadOnlyContext()
	t := getTokenWithKey(ctx, getTokenKey(tokenID))
	c := getCollection(ctx, t.CollectionID)
	return map[string]any{
		"name":         c.Name,
		"tokenURI":     t.MetadataURI,
		"collectionId": t.CollectionID,
		"creator":      t.Creator,
	}
}

// Tokens returns iterator over IDs of all minted tokens.
func Tokens() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{prefixToken}, storage.ValuesOnly|storage.DeserializeValues|storage.PickField0)
}

// TokensOf returns iterator over IDs of tokens owned by the specified owner.
func TokensOf(owner interop.Hash160) iterator.Iterator {
	if !common.IsValidAddress(owner) {
		panic(nftconst.InvalidOwnerError)
	}
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{prefixAccountToken}, owner...), storage.ValuesOnly)
}

// Transfer moves the token to a new owner. The transfer is allowed if the
// current owner witnessed the invocation or the calling contract is approved
// for the token or for all tokens of the owner. Single-token approval is
// cleared on a successful transfer.
func Transfer(to interop.Hash160, tokenID []byte, data any) bool {
	if !common.IsValidAddress(to) {
		panic(nftconst.InvalidReceiverError)
	}
	var (
		tokenKey = getTokenKey(tokenID)
		ctx      = storage.GetContext()
	)
	t := getTokenWithKey(ctx, tokenKey)
	from := t.Owner
	if !runtime.CheckWitness(from) && !isOperator(ctx, from, runtime.GetCallingScriptHash(), tokenKey) {
		return false
	}
	if !common.BytesEqual(from, to) {
		t.Owner = to
		putTokenWithKey(ctx, tokenKey, t)
		storage.Delete(ctx, append([]byte{prefixApproval}, tokenKey...))

		updateBalance(ctx, tokenID, from, -1)
		updateBalance(ctx, tokenID, to, +1)
	}
	postTransfer(from, to, tokenID, data)
	return true
}

// CreateCollection creates a new collection owned by the owner and returns
// its ID. IDs are sequential and start from 1.
func CreateCollection(owner interop.Hash160, name string) int {
	if !common.IsValidAddress(owner) {
		panic(nftconst.InvalidOwnerError)
	}
	common.CheckOwnerWitness(owner)
	if len(name) == 0 {
		panic(nftconst.EmptyCollectionNameError)
	}

	ctx := storage.GetContext()
	id := common.GetInt(ctx, []byte{prefixLastCollection}) + 1
	storage.Put(ctx, []byte{prefixLastCollection}, id)
	common.SetSerialized(ctx, append([]byte{prefixCollection}, getCollectionKey(id)...), Collection{
		ID:    id,
		Owner: owner,
		Name:  name,
	})

	runtime.Notify("CollectionCreated", id, owner, name)
	return id
}

// LastCollectionID returns ID of the most recently created collection or 0.
func LastCollectionID() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, []byte{prefixLastCollection})
}

// GetCollection returns collection with the specified ID.
func GetCollection(collectionID int) Collection {
	ctx := storage.GetReadOnlyContext()
	return getCollection(ctx, collectionID)
}

// Mint creates a token with a random ID in the collection. Only the collection
// owner can mint into it. Returns ID of the new token.
func Mint(owner interop.Hash160, collectionID int, metadataURI string) []byte {
	if !common.IsValidAddress(owner) {
		panic(nftconst.InvalidOwnerError)
	}
	common.CheckOwnerWitness(owner)
	if len(metadataURI) == 0 {
		panic(nftconst.EmptyMetadataURIError)
	}

	ctx := storage.GetContext()
	c := getCollection(ctx, collectionID)
	if !common.BytesEqual(c.Owner, owner) {
		panic(nftconst.NotCollectionOwnerError)
	}

	supply := getTotalSupply(ctx)
	tokenID := newTokenID(supply)
	tokenKey := getTokenKey(tokenID)
	if storage.Get(ctx, append([]byte{prefixToken}, tokenKey...)) != nil {
		panic(nftconst.TokenIDCollisionError)
	}

	putTokenWithKey(ctx, tokenKey, Token{
		ID:           tokenID,
		Owner:        owner,
		CollectionID: collectionID,
		MetadataURI:  metadataURI,
		Creator:      owner,
	})
	collectionTokenKey := append(append([]byte{prefixCollectionToken}, getCollectionKey(collectionID)...), tokenKey...)
	storage.Put(ctx, collectionTokenKey, tokenID)
	storage.Put(ctx, []byte{prefixTotalSupply}, supply+1)
	updateBalance(ctx, tokenID, owner, +1)

	runtime.Notify("NFTMinted", owner, tokenID, collectionID, metadataURI)
	postTransfer(nil, owner, tokenID, nil)
	return tokenID
}

// TokensOfCollection returns iterator over IDs of tokens minted in the
// collection.
func TokensOfCollection(collectionID int) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	getCollection(ctx, collectionID)
	return storage.Find(ctx, append([]byte{prefixCollectionToken}, getCollectionKey(collectionID)...), storage.ValuesOnly)
}

// GetToken returns stored state of the token.
func GetToken(tokenID []byte) Token {
	ctx := storage.GetReadOnlyContext()
	return getTokenWithKey(ctx, getTokenKey(tokenID))
}

// Approve allows the operator to transfer the token on behalf of its owner.
// Nil operator revokes the approval. Requires owner witness.
func Approve(operator interop.Hash160, tokenID []byte) {
	ctx := storage.GetContext()
	tokenKey := getTokenKey(tokenID)
	t := getTokenWithKey(ctx, tokenKey)
	common.CheckOwnerWitness(t.Owner)

	approvalKey := append([]byte{prefixApproval}, tokenKey...)
	if operator == nil {
		storage.Delete(ctx, approvalKey)
	} else {
		if !common.IsValidAddress(operator) {
			panic(nftconst.InvalidOperatorError)
		}
		common.SetSerialized(ctx, approvalKey, approval{Operator: operator})
	}

	runtime.Notify("Approval", t.Owner, operator, tokenID)
}

// GetApproved returns the operator approved for the token or nil.
func GetApproved(tokenID []byte) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	tokenKey := getTokenKey(tokenID)
	getTokenWithKey(ctx, tokenKey)

	return getApprovedOperator(ctx, tokenKey)
}

// SetApprovalForAll allows or disallows the operator to transfer any token
// of the owner. Requires owner witness.
func SetApprovalForAll(owner, operator interop.Hash160, approved bool) {
	if !common.IsValidAddress(owner) {
		panic(nftconst.InvalidOwnerError)
	}
	if !common.IsValidAddress(operator) {
		panic(nftconst.InvalidOperatorError)
	}
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	key := getOperatorKey(owner, operator)
	if approved {
		storage.Put(ctx, key, 1)
	} else {
		storage.Delete(ctx, key)
	}

	runtime.Notify("ApprovalForAll", owner, operator, approved)
}

// IsApprovedForAll checks whether the operator may transfer any token of the
// owner.
func IsApprovedForAll(owner, operator interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, getOperatorKey(owner, operator)) != nil
}

// IsAuthorized checks whether the operator may transfer the token: it is the
// owner, the approved operator of the token or an operator of all owner's
// tokens.
func IsAuthorized(operator interop.Hash160, tokenID []byte) bool {
	ctx := storage.GetReadOnlyContext()
	tokenKey := getTokenKey(tokenID)
	t := getTokenWithKey(ctx, tokenKey)
	return common.BytesEqual(t.Owner, operator) || isOperator(ctx, t.Owner, operator, tokenKey)
}

func isOperator(ctx storage.Context, owner, operator interop.Hash160, tokenKey []byte) bool {
	approved := getApprovedOperator(ctx, tokenKey)
	if approved != nil && common.BytesEqual(approved, operator) {
		return true
	}
	return storage.Get(ctx, getOperatorKey(owner, operator)) != nil
}

// updateBalance updates account's balance and account's tokens.
func updateBalance(ctx storage.Context, tokenID []byte, acc interop.Hash160, diff int) {
	balanceKey := append([]byte{prefixBalance}, acc...)
	balance := common.GetInt(ctx, balanceKey) + diff
	if balance == 0 {
		storage.Delete(ctx, balanceKey)
	} else {
		storage.Put(ctx, balanceKey, balance)
	}

	accountTokenKey := append(append([]byte{prefixAccountToken}, acc...), getTokenKey(tokenID)...)
	if diff < 0 {
		storage.Delete(ctx, accountTokenKey)
	} else {
		storage.Put(ctx, accountTokenKey, tokenID)
	}
}

// postTransfer sends Transfer notification to the network and calls onNEP11Payment
// method.
func postTransfer(from, to interop.Hash160, tokenID []byte, data any) {
	runtime.Notify("Transfer", from, to, 1, tokenID)
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP11Payment", contract.All, from, 1, tokenID, data)
	}
}

// newTokenID derives a fresh token ID from the transaction random number and
// the counter.
func newTokenID(counter int) []byte {
	seed := append(convert.ToBytes(runtime.GetRandom()), convert.ToBytes(counter)...)
	return crypto.Sha256(seed)
}

func getTotalSupply(ctx storage.Context) int {
	return common.GetInt(ctx, []byte{prefixTotalSupply})
}

// getTokenKey computes hash160 from the given tokenID.
func getTokenKey(tokenID []byte) []byte {
	return crypto.Ripemd160(tokenID)
}

// getCollectionKey returns fixed-size key of the collection so that prefix
// searches over collection tokens never overlap.
func getCollectionKey(collectionID int) []byte {
	return crypto.Ripemd160(convert.ToBytes(collectionID))
}

func getOperatorKey(owner, operator interop.Hash160) []byte {
	return append(append([]byte{prefixOperator}, owner...), operator...)
}

func getCollection(ctx storage.Context, collectionID int) Collection {
	data := storage.Get(ctx, append([]byte{prefixCollection}, getCollectionKey(collectionID)...))
	if data == nil {
		panic(nftconst.CollectionNotFoundError)
	}
	return std.Deserialize(data.([]byte)).(Collection)
}

func getTokenWithKey(ctx storage.Context, tokenKey []byte) Token {
	data := storage.Get(ctx, append([]byte{prefixToken}, tokenKey...))
	if data == nil {
		panic(nftconst.NotFoundError)
	}
	return std.Deserialize(data.([]byte)).(Token)
}

// getApprovedOperator returns operator approved for the token or nil.
func getApprovedOperator(ctx storage.Context, tokenKey []byte) interop.Hash160 {
	data := storage.Get(ctx, append([]byte{prefixApproval}, tokenKey...))
	if data == nil {
		return nil
	}
	return std.Deserialize(data.([]byte)).(approval).Operator
}

func putTokenWithKey(ctx storage.Context, tokenKey []byte, t Token) {
	common.SetSerialized(ctx, append([]byte{prefixToken}, tokenKey...), t)
}
