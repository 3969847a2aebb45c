package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// wrapper over Neo RPC client providing blockchain services needed for
// exchange commands.
type remoteBlockchain struct {
	log     *zap.Logger
	rpc     *rpcclient.Client
	invoker *invoker.Invoker
}

// newRemoteBlockchain dials Neo RPC server from the global flags. Connection
// and all requests are done within the configured timeout.
func newRemoteBlockchain(c *cli.Context) (*remoteBlockchain, error) {
	endpoint := c.GlobalString(rpcFlag)
	if endpoint == "" {
		return nil, errors.New("missing Neo RPC endpoint")
	}

	log, err := newLogger(c)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	timeout := c.GlobalDuration(timeoutFlag)
	cl, err := rpcclient.New(context.Background(), endpoint, rpcclient.Options{
		DialTimeout:    timeout,
		RequestTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = cl.Init()
	if err != nil {
		cl.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	log.Debug("connected to Neo RPC server", zap.String("endpoint", endpoint))

	return &remoteBlockchain{
		log:     log,
		rpc:     cl,
		invoker: invoker.New(cl, nil),
	}, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
	_ = x.log.Sync()
}

// GetContractStateByHash implements deploy.Blockchain.
func (x *remoteBlockchain) GetContractStateByHash(h util.Uint160) (*state.Contract, error) {
	return x.rpc.GetContractStateByHash(h)
}

// contractHash reads contract address from the global flag.
func (x *remoteBlockchain) contractHash(c *cli.Context, flag string) (util.Uint160, error) {
	s := c.GlobalString(flag)
	if s == "" {
		return util.Uint160{}, fmt.Errorf("missing --%s contract", flag)
	}
	h, err := parseHash(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid --%s contract: %w", flag, err)
	}
	return h, nil
}

// dialContract connects to the RPC server and resolves address of the contract
// set by the global flag.
func dialContract(c *cli.Context, flag string) (*remoteBlockchain, util.Uint160, error) {
	b, err := newRemoteBlockchain(c)
	if err != nil {
		return nil, util.Uint160{}, err
	}

	h, err := b.contractHash(c, flag)
	if err != nil {
		b.close()
		return nil, util.Uint160{}, err
	}

	return b, h, nil
}

// newActor opens the wallet from command flags and returns actor signing
// with the unlocked account.
func (x *remoteBlockchain) newActor(c *cli.Context) (*actor.Actor, error) {
	path := c.String(walletFlag)
	if path == "" {
		return nil, errors.New("missing wallet")
	}

	w, err := wallet.NewWalletFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	acc := w.GetAccount(w.GetChangeAddress())
	if s := c.String(addressFlag); s != "" {
		h, err := parseHash(s)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}
		acc = w.GetAccount(h)
	}
	if acc == nil {
		return nil, errors.New("account is missing in the wallet")
	}

	err = acc.Decrypt(c.String(passwordFlag), w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("unlock account %s: %w", acc.Address, err)
	}

	a, err := actor.NewSimple(x.rpc, acc)
	if err != nil {
		return nil, fmt.Errorf("init actor: %w", err)
	}

	x.log.Debug("transactions are signed by the account", zap.String("address", acc.Address))

	return a, nil
}

// wait waits for the transaction and checks it succeeded.
func (x *remoteBlockchain) wait(a *actor.Actor, h util.Uint256, vub uint32, err error) error {
	if err != nil {
		return fmt.Errorf("send transaction: %w", err)
	}

	x.log.Info("transaction sent, waiting...", zap.Stringer("hash", h))

	res, err := a.Wait(h, vub, nil)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", h.StringLE(), err)
	}
	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed: %s", h.StringLE(), res.FaultException)
	}

	x.log.Info("transaction accepted", zap.Stringer("hash", h))

	return nil
}
