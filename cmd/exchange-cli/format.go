package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
	auctionrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/auction"
	marketrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/marketplace"
	nftrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/nft"
)

const gasDecimals = 8

// parseHash decodes Neo address or hex-encoded little-endian script hash
// with optional 0x prefix.
func parseHash(s string) (util.Uint160, error) {
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}

	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("neither Neo address nor script hash: %s", s)
	}

	return h, nil
}

// parseTokenID decodes base58 token identifier.
func parseTokenID(s string) ([]byte, error) {
	if s == "" {
		return nil, errors.New("empty token ID")
	}

	id, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode base58 token ID: %w", err)
	}

	return id, nil
}

func formatTokenID(id []byte) string {
	return base58.Encode(id)
}

// parseGAS decodes decimal GAS amount into fractional units.
func parseGAS(s string) (*big.Int, error) {
	v, err := fixedn.FromString(s, gasDecimals)
	if err != nil {
		return nil, fmt.Errorf("invalid GAS amount %q: %w", s, err)
	}
	if v.Sign() <= 0 {
		return nil, fmt.Errorf("non-positive GAS amount %q", s)
	}
	return v, nil
}

func formatGAS(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return fixedn.ToString(v, gasDecimals)
}

func formatAddress(h util.Uint160) string {
	if h.Equals(util.Uint160{}) {
		return "none"
	}
	return address.Uint160ToString(h)
}

func formatDeadline(ms *big.Int) string {
	if ms == nil || !ms.IsInt64() {
		return "invalid"
	}
	return time.UnixMilli(ms.Int64()).UTC().Format(time.RFC3339)
}

func printAuction(w io.Writer, a *auctionrpc.Auction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Seller:\t%s\n", formatAddress(a.Seller))
	fmt.Fprintf(tw, "Asset contract:\t%s\n", a.AssetContract.StringLE())
	fmt.Fprintf(tw, "Token ID:\t%s\n", formatTokenID(a.TokenID))
	fmt.Fprintf(tw, "Starting bid:\t%s GAS\n", formatGAS(a.StartingBid))
	fmt.Fprintf(tw, "Highest bid:\t%s GAS\n", formatGAS(a.HighestBid))
	fmt.Fprintf(tw, "Highest bidder:\t%s\n", formatAddress(a.HighestBidder))
	fmt.Fprintf(tw, "Deadline:\t%s\n", formatDeadline(a.Deadline))
	fmt.Fprintf(tw, "Active:\t%t\n", a.Active)
	return tw.Flush()
}

func printAuctions(w io.Writer, as []*auctionrpc.Auction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ASSET\tTOKEN\tHIGHEST BID\tDEADLINE\tACTIVE")
	for _, a := range as {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n",
			a.AssetContract.StringLE(), formatTokenID(a.TokenID), formatGAS(a.HighestBid), formatDeadline(a.Deadline), a.Active)
	}
	return tw.Flush()
}

func printToken(w io.Writer, t *nftrpc.Token, approved util.Uint160) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", formatTokenID(t.ID))
	fmt.Fprintf(tw, "Owner:\t%s\n", formatAddress(t.Owner))
	fmt.Fprintf(tw, "Creator:\t%s\n", formatAddress(t.Creator))
	fmt.Fprintf(tw, "Collection:\t%s\n", t.CollectionID)
	fmt.Fprintf(tw, "Metadata URI:\t%s\n", t.MetadataURI)
	fmt.Fprintf(tw, "Approved:\t%s\n", formatAddress(approved))
	return tw.Flush()
}

func printMarketItem(w io.Writer, it *marketrpc.MarketItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", it.ID)
	fmt.Fprintf(tw, "Asset contract:\t%s\n", it.AssetContract.StringLE())
	fmt.Fprintf(tw, "Token ID:\t%s\n", formatTokenID(it.TokenID))
	fmt.Fprintf(tw, "Seller:\t%s\n", formatAddress(it.Seller))
	fmt.Fprintf(tw, "Owner:\t%s\n", formatAddress(it.Owner))
	fmt.Fprintf(tw, "Price:\t%s GAS\n", formatGAS(it.Price))
	fmt.Fprintf(tw, "Sold:\t%t\n", it.Sold)
	fmt.Fprintf(tw, "Active:\t%t\n", it.Active)
	return tw.Flush()
}
