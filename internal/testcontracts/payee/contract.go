package payee

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type Call struct {
	From    interop.Hash160
	TokenID []byte
	Data    any
}

const (
	lastCallKey = "call"
	rejectNEP11 = "rejectNEP11"
	rejectNEP17 = "rejectNEP17"
)

func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
	ctx := storage.GetContext()
	if storage.Get(ctx, rejectNEP11) != nil {
		panic("NEP-11 payment rejected")
	}
	if amount != 1 {
		panic("wrong amount")
	}
	storage.Put(ctx, lastCallKey, std.Serialize(Call{
		From:    from,
		TokenID: tokenID,
		Data:    data,
	}))
}

func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if storage.Get(storage.GetReadOnlyContext(), rejectNEP17) != nil {
		panic("NEP-17 payment rejected")
	}
}

// SetRejecting switches acceptance of incoming NEP-11 and NEP-17 payments.
func SetRejecting(nep11, nep17 bool) {
	ctx := storage.GetContext()
	setFlag(ctx, rejectNEP11, nep11)
	setFlag(ctx, rejectNEP17, nep17)
}

// Bid places a bid on behalf of this contract.
func Bid(auction, assetContract interop.Hash160, tokenID []byte, amount int) {
	self := runtime.GetExecutingScriptHash()
	if !gas.Transfer(self, auction, amount, []any{assetContract, tokenID}) {
		panic("bid failed")
	}
}

// Withdraw takes pending funds of this contract from the auction or marketplace.
func Withdraw(exchange interop.Hash160) {
	contract.Call(exchange, "withdrawFunds", contract.All, runtime.GetExecutingScriptHash())
}

func Get() Call {
	val := storage.Get(storage.GetReadOnlyContext(), lastCallKey)
	if val == nil {
		return Call{}
	}
	return std.Deserialize(val.([]byte)).(Call)
}

func Verify() bool {
	return true
}

func setFlag(ctx storage.Context, key string, v bool) {
	if v {
		storage.Put(ctx, key, 1)
	} else {
		storage.Delete(ctx, key)
	}
}
