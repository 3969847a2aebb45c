package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Escrow ledger keeps GAS owed by the contract to accounts until they pull it
// with a withdrawal. Each contract keeps its own ledger in its own storage
// under the prefixes below.
const (
	ledgerBalancePrefix = 'w'
	ledgerTotalKey      = "t"

	// ErrNoFunds is thrown on withdrawal from an account with zero balance.
	ErrNoFunds = "no funds to withdraw"
)

// Credit increases pending balance of the account.
func Credit(ctx storage.Context, account interop.Hash160, amount int) {
	if amount <= 0 {
		return
	}

	key := ledgerKey(account)
	storage.Put(ctx, key, GetInt(ctx, key)+amount)
	storage.Put(ctx, ledgerTotalKey, GetInt(ctx, ledgerTotalKey)+amount)
}

// PendingOf returns pending balance of the account.
func PendingOf(ctx storage.Context, account interop.Hash160) int {
	return GetInt(ctx, ledgerKey(account))
}

// TotalPending returns the sum of all pending balances.
func TotalPending(ctx storage.Context) int {
	return GetInt(ctx, ledgerTotalKey)
}

// Withdraw zeroes pending balance of the account and then sends the whole
// amount to it. Returns transferred amount. Panics with ErrNoFunds if there is
// nothing to withdraw and with ErrGASTransferFailed if the transfer fails.
func Withdraw(ctx storage.Context, account interop.Hash160) int {
	key := ledgerKey(account)
	amount := GetInt(ctx, key)
	if amount <= 0 {
		panic(ErrNoFunds)
	}

	storage.Delete(ctx, key)
	storage.Put(ctx, ledgerTotalKey, GetInt(ctx, ledgerTotalKey)-amount)

	TransferGAS(account, amount, nil)

	return amount
}

func ledgerKey(account interop.Hash160) []byte {
	return append([]byte{ledgerBalancePrefix}, account...)
}
