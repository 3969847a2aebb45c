// Package contracttest contains helpers for contract tests run on a single-node
// neotest chain.
package contracttest

import (
	"math/big"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// GAS is the amount of the smallest GAS units in one GAS.
const GAS = 1_0000_0000

// Contract directories relative to the repository root.
const (
	NFTPath         = "contracts/nft"
	AuctionPath     = "contracts/auction"
	MarketplacePath = "contracts/marketplace"
	PayeePath       = "internal/testcontracts/payee"
)

// Exchange is a chain with all exchange contracts deployed.
type Exchange struct {
	*neotest.Executor

	NFT         util.Uint160
	Auction     util.Uint160
	Marketplace util.Uint160
}

// NewExecutor creates executor over a new single-node chain.
func NewExecutor(t testing.TB) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// NewExchange deploys registry, auction and marketplace contracts to a new chain.
func NewExchange(t testing.TB) *Exchange {
	e := NewExecutor(t)
	return &Exchange{
		Executor:    e,
		NFT:         DeployNFT(t, e, "Exchange NFT", "EXNFT"),
		Auction:     Deploy(t, e, AuctionPath, nil),
		Marketplace: Deploy(t, e, MarketplacePath, nil),
	}
}

// Path returns absolute path of the directory given relative to the
// repository root.
func Path(rel string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", rel)
}

// Compile compiles contract from the directory relative to the repository root.
func Compile(t testing.TB, e *neotest.Executor, rel string) *neotest.Contract {
	dir := Path(rel)
	return neotest.CompileFile(t, e.CommitteeHash, dir, filepath.Join(dir, "config.yml"))
}

// Deploy compiles and deploys contract from the directory relative to the
// repository root. data is passed to `_deploy`.
func Deploy(t testing.TB, e *neotest.Executor, rel string, data any) util.Uint160 {
	c := Compile(t, e, rel)
	e.DeployContract(t, c, data)
	return c.Hash
}

// DeployNFT deploys registry contract with the specified name and symbol.
func DeployNFT(t testing.TB, e *neotest.Executor, name, symbol string) util.Uint160 {
	return Deploy(t, e, NFTPath, []any{name, symbol})
}

// Mint creates a collection owned by the owner and mints a token into it.
// Returns ID of the new token.
func Mint(t testing.TB, e *neotest.Executor, nftHash util.Uint160, owner neotest.Signer, metadataURI string) []byte {
	inv := e.NewInvoker(nftHash, owner)

	var collectionID int64
	inv.InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Equal(t, 1, len(stack))
		id, err := stack[0].TryInteger()
		require.NoError(t, err)
		collectionID = id.Int64()
	}, "createCollection", owner.ScriptHash(), "collection")

	var tokenID []byte
	inv.InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Equal(t, 1, len(stack))
		id, err := stack[0].TryBytes()
		require.NoError(t, err)
		tokenID = id
	}, "mint", owner.ScriptHash(), collectionID, metadataURI)

	return tokenID
}

// GASInvoker returns invoker of the native GAS contract signed by the signer.
func GASInvoker(t testing.TB, e *neotest.Executor, signer neotest.Signer) *neotest.ContractInvoker {
	return e.NewInvoker(e.NativeHash(t, nativenames.Gas), signer)
}

// GASBalance returns GAS balance of the account.
func GASBalance(e *neotest.Executor, acc util.Uint160) *big.Int {
	return e.Chain.GetUtilityTokenBalance(acc)
}

// AdvanceTime persists a block with the timestamp moved forward by d
// relative to the regular next block.
func AdvanceTime(t testing.TB, e *neotest.Executor, d time.Duration) {
	b := e.NewUnsignedBlock(t)
	b.Timestamp += uint64(d / time.Millisecond)
	require.NoError(t, e.Chain.AddBlock(e.SignBlock(b)))
}

// CheckEvent checks that the transaction produced exactly one notification
// with the given name from the contract and compares its arguments.
func CheckEvent(t testing.TB, e *neotest.Executor, h util.Uint256, contract util.Uint160, name string, args ...any) {
	aer := e.GetTxExecResult(t, h)

	var found []stackitem.Item
	for _, ev := range aer.Events {
		if ev.ScriptHash.Equals(contract) && ev.Name == name {
			found = append(found, ev.Item)
		}
	}
	require.Len(t, found, 1, "notification %s", name)

	items := found[0].Value().([]stackitem.Item)
	require.Len(t, items, len(args), "notification %s", name)
	for i := range args {
		expected := stackitem.Make(args[i])
		require.True(t, expected.Equals(items[i]),
			"notification %s, argument %d: expected %v, got %v", name, i, expected.Value(), items[i].Value())
	}
}

// CheckNoEvent checks that the transaction didn't produce notifications with
// the given name from the contract.
func CheckNoEvent(t testing.TB, e *neotest.Executor, h util.Uint256, contract util.Uint160, name string) {
	aer := e.GetTxExecResult(t, h)
	for _, ev := range aer.Events {
		require.False(t, ev.ScriptHash.Equals(contract) && ev.Name == name, "unexpected notification %s", name)
	}
}

// IteratorToArray drains the iterator returned by a test invocation.
func IteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}

// TestIterate invokes the method returning an iterator in test mode and
// returns all iterator items.
func TestIterate(t testing.TB, c *neotest.ContractInvoker, method string, args ...any) []stackitem.Item {
	s, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)

	iter, ok := s.Pop().Value().(*storage.Iterator)
	require.True(t, ok, "%s must return an iterator", method)
	return IteratorToArray(iter)
}

// TestInt invokes the method in test mode and returns its integer result.
func TestInt(t testing.TB, c *neotest.ContractInvoker, method string, args ...any) int64 {
	s, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)

	v, err := s.Pop().Item().TryInteger()
	require.NoError(t, err)
	return v.Int64()
}
