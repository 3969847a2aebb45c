package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/nft-exchange-contract/contracts"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the exchange deployment.
type Blockchain interface {
	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommitteeActor sends transactions witnessed by the Neo committee. Contract
// updates require committee witness. Contract addresses depend on the sender
// of the deploying transaction, so the same actor deploys them too.
type CommitteeActor interface {
	// Sender returns the account paying for transactions.
	Sender() util.Uint160

	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)

	// WaitAny waits until one of the transactions is accepted or ValidUntilBlock
	// passes.
	WaitAny(ctx context.Context, vub uint32, hashes ...util.Uint256) (*state.AppExecResult, error)
}

// NFTPrm groups deployment parameters of the NFT registry contract.
type NFTPrm struct {
	// Name of the registry returned by `name` method.
	Name string
	// Symbol of the registry tokens, contract default is used if empty.
	Symbol string
}

// Addresses groups addresses of the exchange contracts.
type Addresses struct {
	NFT         util.Uint160
	Auction     util.Uint160
	Marketplace util.Uint160
}

// Prm groups all parameters of the exchange deployment procedure.
type Prm struct {
	// Writes progress into the log. Optional.
	Logger *zap.Logger

	// Particular Neo blockchain instance the exchange is deployed to.
	Blockchain Blockchain

	// Committee signs deployment and update transactions.
	Committee CommitteeActor

	// Compiled contracts to be synchronized with the chain.
	Contracts contracts.Exchange

	NFT NFTPrm

	// Known addresses of already deployed contracts. Zero address means the
	// contract address is derived from the committee sender and the local
	// contract, which matches only contracts never updated since deployment.
	Known Addresses
}

// Deploy synchronizes exchange contracts with the chain: missing contracts
// are deployed, contracts with outdated executable are updated. The registry
// comes first, the auction and the marketplace follow.
//
// Deploy returns addresses of all contracts on success. Each transaction is
// awaited before the next one is sent, so Deploy aborts by context or on the
// first failure.
func Deploy(ctx context.Context, prm Prm) (Addresses, error) {
	var res Addresses

	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	syncPrm := syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		committee:  prm.Committee,
	}

	var nftDeployArgs []any
	if prm.NFT.Symbol != "" {
		nftDeployArgs = []any{prm.NFT.Name, prm.NFT.Symbol}
	} else {
		nftDeployArgs = []any{prm.NFT.Name}
	}

	for _, c := range []struct {
		title      string
		contract   contracts.Contract
		known      util.Uint160
		deployArgs []any
		dst        *util.Uint160
	}{
		{"NFT", prm.Contracts.NFT, prm.Known.NFT, nftDeployArgs, &res.NFT},
		{"Auction", prm.Contracts.Auction, prm.Known.Auction, nil, &res.Auction},
		{"Marketplace", prm.Contracts.Marketplace, prm.Known.Marketplace, nil, &res.Marketplace},
	} {
		syncPrm.contract = c.contract
		syncPrm.knownAddress = c.known
		syncPrm.deployArgs = c.deployArgs

		prm.Logger.Info("synchronizing " + c.title + " contract with the chain...")

		addr, err := syncContract(ctx, syncPrm)
		if err != nil {
			return Addresses{}, fmt.Errorf("sync %s contract with the chain: %w", c.title, err)
		}

		prm.Logger.Info(c.title+" contract successfully synchronized", zap.Stringer("address", addr))
		*c.dst = addr
	}

	return res, nil
}

type syncContractPrm struct {
	logger     *zap.Logger
	blockchain Blockchain
	committee  CommitteeActor

	contract     contracts.Contract
	knownAddress util.Uint160
	deployArgs   []any
}

// syncContract deploys or updates the contract and returns its address.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	addr := prm.knownAddress
	if addr.Equals(util.Uint160{}) {
		addr = state.CreateContractHash(prm.committee.Sender(), prm.contract.NEF.Checksum, prm.contract.Manifest.Name)
	}

	l := prm.logger.With(zap.String("contract", prm.contract.Manifest.Name), zap.Stringer("address", addr))

	bNEF, err := prm.contract.NEF.Bytes()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode NEF: %w", err)
	}

	jManifest, err := json.Marshal(prm.contract.Manifest)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode manifest: %w", err)
	}

	st, err := prm.blockchain.GetContractStateByHash(addr)
	if err != nil {
		if !isErrContractNotFound(err) {
			return util.Uint160{}, fmt.Errorf("get state of the contract by address %s: %w", addr, err)
		}
		if !prm.knownAddress.Equals(util.Uint160{}) {
			return util.Uint160{}, fmt.Errorf("contract is missing at the known address %s", addr)
		}

		l.Info("contract is missing on the chain, deploying...")

		err = sendAndWait(ctx, prm.committee, management.Hash, "deploy", bNEF, jManifest, prm.deployArgs)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("deploy contract: %w", err)
		}

		l.Info("contract successfully deployed")

		return addr, nil
	}

	if st.Manifest.Name != prm.contract.Manifest.Name {
		return util.Uint160{}, fmt.Errorf("contract %s found at address %s instead of %s",
			st.Manifest.Name, addr, prm.contract.Manifest.Name)
	}

	if st.NEF.Checksum == prm.contract.NEF.Checksum {
		l.Info("contract is up to date, skip")
		return addr, nil
	}

	l.Info("contract differs from the local one, updating...",
		zap.Uint32("on-chain checksum", st.NEF.Checksum), zap.Uint32("local checksum", prm.contract.NEF.Checksum))

	err = sendAndWait(ctx, prm.committee, addr, "update", bNEF, jManifest, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("update contract: %w", err)
	}

	l.Info("contract successfully updated")

	return addr, nil
}

// sendAndWait sends transaction calling the method and waits until it is
// accepted. Faulted transaction is an error.
func sendAndWait(ctx context.Context, a CommitteeActor, contract util.Uint160, method string, params ...any) error {
	h, vub, err := a.SendCall(contract, method, params...)
	if err != nil {
		return fmt.Errorf("send transaction calling '%s': %w", method, err)
	}

	res, err := a.WaitAny(ctx, vub, h)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", h.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("%w: transaction %s, exception: %s", errTransactionFault, h.StringLE(), res.FaultException)
	}

	return nil
}

var errTransactionFault = errors.New("transaction failed")

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}
