package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrGASTransferFailed is thrown when GAS can't be sent from the contract.
const ErrGASTransferFailed = "GAS transfer failed"

// IsGASPayment checks that the current NEP-17 payment callback is invoked
// by the native GAS contract.
func IsGASPayment() bool {
	return BytesEqual(runtime.GetCallingScriptHash(), []byte(gas.Hash))
}

// TransferGAS sends GAS from the executing contract. Recipient's onNEP17Payment
// is invoked if it is a contract. Panics with ErrGASTransferFailed if GAS
// contract declines the transfer.
func TransferGAS(to interop.Hash160, amount int, data any) {
	from := runtime.GetExecutingScriptHash()
	if !gas.Transfer(from, to, amount, data) {
		panic(ErrGASTransferFailed)
	}
}
