package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/util"
	auctionrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/auction"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func assetFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  assetFlag,
			Usage: "Asset contract address or hash, NFT registry by default",
		},
		cli.StringFlag{
			Name:  tokenFlag,
			Usage: "Base58-encoded token ID",
		},
	}
}

func auctionCommand() cli.Command {
	return cli.Command{
		Name:  "auction",
		Usage: "Auction contract operations",
		Subcommands: []cli.Command{
			{
				Name:   "show",
				Usage:  "Print auction of the asset",
				Flags:  assetFlags(),
				Action: auctionShow,
			},
			{
				Name:  "list",
				Usage: "List all auctions ever created",
				Flags: []cli.Flag{
					cli.IntFlag{
						Name:  countFlag,
						Usage: "Maximum number of auctions to print",
						Value: 100,
					},
				},
				Action: auctionList,
			},
			{
				Name:  "pending",
				Usage: "Print GAS pending withdrawal by the account",
				Flags: []cli.Flag{
					cli.StringFlag{
						Name:  accountFlag,
						Usage: "Account address",
					},
				},
				Action: auctionPending,
			},
			{
				Name:   "bid",
				Usage:  "Bid on the auction by GAS transfer",
				Flags:  append(append(assetFlags(), cli.StringFlag{Name: amountFlag, Usage: "Bid in GAS, e.g. 1.5"}), walletFlags()...),
				Action: auctionBid,
			},
			{
				Name:   "finalize",
				Usage:  "Finalize ended auction",
				Flags:  append(assetFlags(), walletFlags()...),
				Action: auctionFinalize,
			},
			{
				Name:   "withdraw",
				Usage:  "Withdraw GAS pending for the signing account",
				Flags:  walletFlags(),
				Action: auctionWithdraw,
			},
		},
	}
}

// assetKey reads asset contract and token ID from the command flags. NFT
// registry is the default asset contract.
func assetKey(c *cli.Context, b *remoteBlockchain) (util.Uint160, []byte, error) {
	tokenID, err := parseTokenID(c.String(tokenFlag))
	if err != nil {
		return util.Uint160{}, nil, err
	}

	if s := c.String(assetFlag); s != "" {
		asset, err := parseHash(s)
		if err != nil {
			return util.Uint160{}, nil, fmt.Errorf("invalid asset contract: %w", err)
		}
		return asset, tokenID, nil
	}

	asset, err := b.contractHash(c, nftFlag)
	if err != nil {
		return util.Uint160{}, nil, err
	}

	return asset, tokenID, nil
}

func auctionReader(c *cli.Context) (*remoteBlockchain, *auctionrpc.ContractReader, error) {
	b, h, err := dialContract(c, auctionFlag)
	if err != nil {
		return nil, nil, err
	}
	return b, auctionrpc.NewReader(b.invoker, h), nil
}

func auctionShow(c *cli.Context) error {
	b, r, err := auctionReader(c)
	if err != nil {
		return err
	}
	defer b.close()

	asset, tokenID, err := assetKey(c, b)
	if err != nil {
		return err
	}

	a, err := r.GetAuction(asset, tokenID)
	if err != nil {
		return fmt.Errorf("get auction: %w", err)
	}

	return printAuction(c.App.Writer, a)
}

func auctionList(c *cli.Context) error {
	b, r, err := auctionReader(c)
	if err != nil {
		return err
	}
	defer b.close()

	n := c.Int(countFlag)
	if n <= 0 {
		return fmt.Errorf("non-positive --%s %d", countFlag, n)
	}

	as, err := r.AuctionsExpanded(n)
	if err != nil {
		return fmt.Errorf("list auctions: %w", err)
	}

	b.log.Debug("auctions received", zap.Int("count", len(as)))

	return printAuctions(c.App.Writer, as)
}

func auctionPending(c *cli.Context) error {
	b, r, err := auctionReader(c)
	if err != nil {
		return err
	}
	defer b.close()

	acc, err := parseHash(c.String(accountFlag))
	if err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	v, err := r.PendingWithdrawals(acc)
	if err != nil {
		return fmt.Errorf("get pending withdrawals: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "%s GAS\n", formatGAS(v))

	return nil
}

func auctionBid(c *cli.Context) error {
	amount, err := parseGAS(c.String(amountFlag))
	if err != nil {
		return err
	}

	b, auctionHash, err := dialContract(c, auctionFlag)
	if err != nil {
		return err
	}
	defer b.close()

	asset, tokenID, err := assetKey(c, b)
	if err != nil {
		return err
	}

	a, err := b.newActor(c)
	if err != nil {
		return err
	}

	h, vub, err := gas.New(a).Transfer(a.Sender(), auctionHash, amount, auctionrpc.BidData(asset, tokenID))

	return b.wait(a, h, vub, err)
}

func auctionFinalize(c *cli.Context) error {
	b, auctionHash, err := dialContract(c, auctionFlag)
	if err != nil {
		return err
	}
	defer b.close()

	asset, tokenID, err := assetKey(c, b)
	if err != nil {
		return err
	}

	a, err := b.newActor(c)
	if err != nil {
		return err
	}

	h, vub, err := auctionrpc.New(a, auctionHash).FinalizeAuction(asset, tokenID)

	return b.wait(a, h, vub, err)
}

func auctionWithdraw(c *cli.Context) error {
	b, auctionHash, err := dialContract(c, auctionFlag)
	if err != nil {
		return err
	}
	defer b.close()

	a, err := b.newActor(c)
	if err != nil {
		return err
	}

	h, vub, err := auctionrpc.New(a, auctionHash).WithdrawFunds(a.Sender())

	return b.wait(a, h, vub, err)
}
