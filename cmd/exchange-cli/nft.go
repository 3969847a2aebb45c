package main

import (
	"fmt"
	"math/big"

	nftrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/nft"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const collectionFlag = "collection"

func nftCommand() cli.Command {
	return cli.Command{
		Name:  "nft",
		Usage: "NFT registry operations",
		Subcommands: []cli.Command{
			{
				Name:  "token",
				Usage: "Print token properties",
				Flags: []cli.Flag{
					cli.StringFlag{
						Name:  tokenFlag,
						Usage: "Base58-encoded token ID",
					},
				},
				Action: nftToken,
			},
			{
				Name:  "collection",
				Usage: "Print collection and its tokens",
				Flags: []cli.Flag{
					cli.Int64Flag{
						Name:  collectionFlag,
						Usage: "Collection ID",
					},
					cli.IntFlag{
						Name:  countFlag,
						Usage: "Maximum number of tokens to print",
						Value: 100,
					},
				},
				Action: nftCollection,
			},
		},
	}
}

func nftToken(c *cli.Context) error {
	tokenID, err := parseTokenID(c.String(tokenFlag))
	if err != nil {
		return err
	}

	b, h, err := dialContract(c, nftFlag)
	if err != nil {
		return err
	}
	defer b.close()

	r := nftrpc.NewReader(b.invoker, h)

	t, err := r.GetToken(tokenID)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	approved, err := r.GetApproved(tokenID)
	if err != nil {
		return fmt.Errorf("get approved operator: %w", err)
	}

	return printToken(c.App.Writer, t, approved)
}

func nftCollection(c *cli.Context) error {
	n := c.Int(countFlag)
	if n <= 0 {
		return fmt.Errorf("non-positive --%s %d", countFlag, n)
	}

	b, h, err := dialContract(c, nftFlag)
	if err != nil {
		return err
	}
	defer b.close()

	r := nftrpc.NewReader(b.invoker, h)
	id := big.NewInt(c.Int64(collectionFlag))

	col, err := r.GetCollection(id)
	if err != nil {
		return fmt.Errorf("get collection: %w", err)
	}

	ids, err := r.TokensOfCollectionExpanded(id, n)
	if err != nil {
		return fmt.Errorf("list collection tokens: %w", err)
	}

	b.log.Debug("collection tokens received", zap.Int("count", len(ids)))

	w := c.App.Writer
	fmt.Fprintf(w, "Collection %s %q owned by %s\n", col.ID, col.Name, formatAddress(col.Owner))
	for i := range ids {
		fmt.Fprintln(w, formatTokenID(ids[i]))
	}

	return nil
}
