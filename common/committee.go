package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/neo"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// CommitteeAddress returns N/2+1 multisignature address of the current Neo
// committee.
func CommitteeAddress() interop.Hash160 {
	keys := neo.GetCommittee()
	return contract.CreateMultisigAccount(len(keys)/2+1, keys)
}

// HasUpdateAccess returns true if the committee witnessed the call, exchange
// contracts are updated only by the committee.
func HasUpdateAccess() bool {
	return runtime.CheckWitness(CommitteeAddress())
}
