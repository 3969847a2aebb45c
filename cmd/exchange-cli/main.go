package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	rpcFlag         = "rpc"
	timeoutFlag     = "timeout"
	debugFlag       = "debug"
	nftFlag         = "nft"
	auctionFlag     = "auction"
	marketplaceFlag = "marketplace"

	walletFlag   = "wallet"
	addressFlag  = "address"
	passwordFlag = "password"
	assetFlag    = "asset"
	tokenFlag    = "token"
	accountFlag  = "account"
	countFlag    = "count"
	amountFlag   = "amount"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "exchange-cli"
	app.Usage = "Inspect and operate NFT exchange contracts"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   rpcFlag + ", r",
			Usage:  "Neo RPC server endpoint",
			EnvVar: "EXCHANGE_RPC",
		},
		cli.DurationFlag{
			Name:  timeoutFlag + ", t",
			Usage: "Timeout of dialing and of every RPC request",
			Value: 15 * time.Second,
		},
		cli.BoolFlag{
			Name:  debugFlag + ", d",
			Usage: "Enable debug logging",
		},
		cli.StringFlag{
			Name:   nftFlag,
			Usage:  "NFT registry contract address or hash",
			EnvVar: "EXCHANGE_NFT",
		},
		cli.StringFlag{
			Name:   auctionFlag,
			Usage:  "Auction contract address or hash",
			EnvVar: "EXCHANGE_AUCTION",
		},
		cli.StringFlag{
			Name:   marketplaceFlag,
			Usage:  "Marketplace contract address or hash",
			EnvVar: "EXCHANGE_MARKETPLACE",
		},
	}
	app.Commands = []cli.Command{
		auctionCommand(),
		nftCommand(),
		marketCommand(),
		deployCommand(),
	}
	return app
}

// newLogger builds production logger, --debug lowers its level.
func newLogger(c *cli.Context) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if c.GlobalBool(debugFlag) {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func walletFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  walletFlag + ", w",
			Usage: "Path to the NEP-6 wallet",
		},
		cli.StringFlag{
			Name:  addressFlag + ", a",
			Usage: "Wallet account to sign transactions with",
		},
		cli.StringFlag{
			Name:   passwordFlag,
			Usage:  "Password of the wallet account",
			EnvVar: "EXCHANGE_WALLET_PASSWORD",
		},
	}
}
