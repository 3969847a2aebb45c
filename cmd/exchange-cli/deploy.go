package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/nft-exchange-contract/contracts"
	"github.com/nspcc-dev/nft-exchange-contract/deploy"
	"github.com/urfave/cli"
)

const (
	contractsFlag = "contracts"
	nameFlag      = "name"
	symbolFlag    = "symbol"
)

func deployCommand() cli.Command {
	return cli.Command{
		Name:      "deploy",
		Usage:     "Deploy or update exchange contracts by the committee account",
		UsageText: "Contract addresses given by the global flags are updated, other contracts are deployed.",
		Flags: append([]cli.Flag{
			cli.StringFlag{
				Name:  contractsFlag + ", c",
				Usage: "Directory with compiled contracts",
				Value: ".",
			},
			cli.StringFlag{
				Name:  nameFlag,
				Usage: "Name of the NFT registry",
				Value: "NFT Exchange",
			},
			cli.StringFlag{
				Name:  symbolFlag,
				Usage: "Symbol of the registry tokens, contract default if empty",
			},
		}, walletFlags()...),
		Action: deployExchange,
	}
}

// knownAddresses reads optional contract addresses from the global flags.
func knownAddresses(c *cli.Context, b *remoteBlockchain) (deploy.Addresses, error) {
	var res deploy.Addresses
	for flag, dst := range map[string]*util.Uint160{
		nftFlag:         &res.NFT,
		auctionFlag:     &res.Auction,
		marketplaceFlag: &res.Marketplace,
	} {
		if c.GlobalString(flag) == "" {
			continue
		}
		h, err := b.contractHash(c, flag)
		if err != nil {
			return deploy.Addresses{}, err
		}
		*dst = h
	}
	return res, nil
}

func deployExchange(c *cli.Context) error {
	ex, err := contracts.ReadDir(c.String(contractsFlag))
	if err != nil {
		return fmt.Errorf("read contracts: %w", err)
	}

	b, err := newRemoteBlockchain(c)
	if err != nil {
		return err
	}
	defer b.close()

	known, err := knownAddresses(c, b)
	if err != nil {
		return err
	}

	a, err := b.newActor(c)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	res, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:     b.log,
		Blockchain: b,
		Committee:  a,
		Contracts:  ex,
		NFT: deploy.NFTPrm{
			Name:   c.String(nameFlag),
			Symbol: c.String(symbolFlag),
		},
		Known: known,
	})
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "NFT: %s\n", res.NFT.StringLE())
	fmt.Fprintf(w, "Auction: %s\n", res.Auction.StringLE())
	fmt.Fprintf(w, "Marketplace: %s\n", res.Marketplace.StringLE())

	return nil
}
