package main

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	marketrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/marketplace"
	"github.com/urfave/cli"
)

const itemFlag = "id"

func itemFlags() []cli.Flag {
	return []cli.Flag{
		cli.Int64Flag{
			Name:  itemFlag,
			Usage: "Market item ID",
		},
	}
}

func marketCommand() cli.Command {
	return cli.Command{
		Name:  "market",
		Usage: "Marketplace contract operations",
		Subcommands: []cli.Command{
			{
				Name:   "item",
				Usage:  "Print market item",
				Flags:  itemFlags(),
				Action: marketItem,
			},
			{
				Name:   "buy",
				Usage:  "Buy market item paying its price in GAS",
				Flags:  append(itemFlags(), walletFlags()...),
				Action: marketBuy,
			},
		},
	}
}

func itemID(c *cli.Context) (*big.Int, error) {
	id := c.Int64(itemFlag)
	if id <= 0 {
		return nil, fmt.Errorf("invalid --%s %d", itemFlag, id)
	}
	return big.NewInt(id), nil
}

func marketItem(c *cli.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	b, h, err := dialContract(c, marketplaceFlag)
	if err != nil {
		return err
	}
	defer b.close()

	it, err := marketrpc.NewReader(b.invoker, h).GetItem(id)
	if err != nil {
		return fmt.Errorf("get market item: %w", err)
	}

	return printMarketItem(c.App.Writer, it)
}

// marketBuy reads current item price and transfers exactly this amount of GAS
// to the marketplace.
func marketBuy(c *cli.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	b, h, err := dialContract(c, marketplaceFlag)
	if err != nil {
		return err
	}
	defer b.close()

	it, err := marketrpc.NewReader(b.invoker, h).GetItem(id)
	if err != nil {
		return fmt.Errorf("get market item: %w", err)
	}
	if !it.Active {
		return fmt.Errorf("market item %s is not for sale", id)
	}

	a, err := b.newActor(c)
	if err != nil {
		return err
	}

	tx, vub, err := gas.New(a).Transfer(a.Sender(), h, it.Price, id)

	return b.wait(a, tx, vub, err)
}
