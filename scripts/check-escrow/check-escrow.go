package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	auctionrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/auction"
	marketrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/marketplace"
)

const maxAuctions = 10000

var height = flag.Uint("height", 0, "check the state at the given block height instead of the latest one")

func initClient(addr string) (*rpcclient.Client, error) {
	c, err := rpcclient.New(context.Background(), addr, rpcclient.Options{})
	if err != nil {
		return nil, fmt.Errorf("RPC: %w", err)
	}
	err = c.Init()
	if err != nil {
		return nil, fmt.Errorf("RPC init: %w", err)
	}
	return c, nil
}

// escrowedBids sums highest bids of active auctions, this GAS is held until
// auction is finalized or cancelled.
func escrowedBids(as []*auctionrpc.Auction) *big.Int {
	res := new(big.Int)
	for _, a := range as {
		if a.Active && a.HighestBid != nil {
			res.Add(res, a.HighestBid)
		}
	}
	return res
}

type escrowReport struct {
	name     string
	balance  *big.Int
	expected *big.Int
}

func (r escrowReport) print() bool {
	ok := r.balance.Cmp(r.expected) == 0
	status := "OK"
	if !ok {
		status = "MISMATCH"
	}
	fmt.Printf("%s: balance %s GAS, owed %s GAS: %s\n", r.name,
		fixedn.ToString(r.balance, 8), fixedn.ToString(r.expected, 8), status)
	return ok
}

func checkAuction(inv *invoker.Invoker, h util.Uint160) (escrowReport, error) {
	r := auctionrpc.NewReader(inv, h)

	pending, err := r.TotalPending()
	if err != nil {
		return escrowReport{}, fmt.Errorf("auction total pending: %w", err)
	}
	as, err := r.AuctionsExpanded(maxAuctions)
	if err != nil {
		return escrowReport{}, fmt.Errorf("list auctions: %w", err)
	}
	if len(as) == maxAuctions {
		fmt.Println("WARN: auction list is truncated to", maxAuctions)
	}
	balance, err := gas.NewReader(inv).BalanceOf(h)
	if err != nil {
		return escrowReport{}, fmt.Errorf("auction GAS balance: %w", err)
	}

	bids := escrowedBids(as)
	fmt.Println(len(as), "auctions, escrowed bids:", fixedn.ToString(bids, 8), "pending withdrawals:", fixedn.ToString(pending, 8))

	return escrowReport{
		name:     "auction " + address.Uint160ToString(h),
		balance:  balance,
		expected: new(big.Int).Add(pending, bids),
	}, nil
}

func checkMarketplace(inv *invoker.Invoker, h util.Uint160) (escrowReport, error) {
	pending, err := marketrpc.NewReader(inv, h).TotalPending()
	if err != nil {
		return escrowReport{}, fmt.Errorf("marketplace total pending: %w", err)
	}
	balance, err := gas.NewReader(inv).BalanceOf(h)
	if err != nil {
		return escrowReport{}, fmt.Errorf("marketplace GAS balance: %w", err)
	}
	return escrowReport{
		name:     "marketplace " + address.Uint160ToString(h),
		balance:  balance,
		expected: pending,
	}, nil
}

func cliMain() error {
	flag.Parse()

	args := flag.Args()
	if len(args) < 3 {
		return errors.New("usage: program [-height N] <RPC> <AUCTION_CONTRACT> <MARKETPLACE_CONTRACT>")
	}

	auctionHash, err := address.StringToUint160(args[1])
	if err != nil {
		return fmt.Errorf("bad auction address: %w", err)
	}
	marketHash, err := address.StringToUint160(args[2])
	if err != nil {
		return fmt.Errorf("bad marketplace address: %w", err)
	}

	c, err := initClient(args[0])
	if err != nil {
		return err
	}
	defer c.Close()

	inv := invoker.New(c, nil)
	if *height > 0 {
		inv = invoker.NewHistoricAtHeight(uint32(*height), c, nil)
	}

	var reports []escrowReport

	rep, err := checkAuction(inv, auctionHash)
	if err != nil {
		return err
	}
	reports = append(reports, rep)

	rep, err = checkMarketplace(inv, marketHash)
	if err != nil {
		return err
	}
	reports = append(reports, rep)

	failed := false
	for _, r := range reports {
		if !r.print() {
			failed = true
		}
	}
	if failed {
		return errors.New("contract GAS balance does not match owed funds")
	}

	return nil
}

func main() {
	if err := cliMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
