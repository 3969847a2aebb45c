package main

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	auctionrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/auction"
	marketrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/marketplace"
	nftrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/nft"
	"github.com/stretchr/testify/require"
)

func TestParseHash(t *testing.T) {
	h := util.Uint160{1, 2, 3, 4, 5}

	for _, s := range []string{
		address.Uint160ToString(h),
		h.StringLE(),
		"0x" + h.StringLE(),
	} {
		res, err := parseHash(s)
		require.NoError(t, err, s)
		require.Equal(t, h, res)
	}

	for _, s := range []string{
		"",
		"NotAnAddress",
		h.StringLE()[2:],
	} {
		_, err := parseHash(s)
		require.Error(t, err, s)
	}
}

func TestTokenID(t *testing.T) {
	id := []byte{0x1f, 0, 0xa1, 0xff}

	res, err := parseTokenID(formatTokenID(id))
	require.NoError(t, err)
	require.Equal(t, id, res)

	_, err = parseTokenID("")
	require.Error(t, err)

	// 0, O, I and l are out of the base58 alphabet.
	_, err = parseTokenID("0OIl")
	require.Error(t, err)
}

func TestGAS(t *testing.T) {
	v, err := parseGAS("1.5")
	require.NoError(t, err)
	require.EqualValues(t, 150_000_000, v.Int64())
	require.Equal(t, "1.5", formatGAS(v))

	v, err = parseGAS("0.00000001")
	require.NoError(t, err)
	require.EqualValues(t, 1, v.Int64())

	for _, s := range []string{"", "0", "-1", "1.123456789", "ten"} {
		_, err := parseGAS(s)
		require.Error(t, err, s)
	}

	require.Equal(t, "0", formatGAS(nil))
}

func TestFormatDeadline(t *testing.T) {
	require.Equal(t, "2023-11-14T22:13:20Z", formatDeadline(big.NewInt(1_700_000_000_000)))
	require.Equal(t, "invalid", formatDeadline(nil))
	require.Equal(t, "invalid", formatDeadline(new(big.Int).Lsh(big.NewInt(1), 64)))
}

func TestPrintAuction(t *testing.T) {
	seller := util.Uint160{1}
	a := &auctionrpc.Auction{
		Seller:        seller,
		AssetContract: util.Uint160{2},
		TokenID:       []byte{1, 2, 3},
		StartingBid:   big.NewInt(100_000_000),
		HighestBid:    big.NewInt(0),
		Deadline:      big.NewInt(1_700_000_000_000),
		Active:        true,
	}

	var buf bytes.Buffer
	require.NoError(t, printAuction(&buf, a))

	out := buf.String()
	require.Contains(t, out, address.Uint160ToString(seller))
	require.Contains(t, out, formatTokenID(a.TokenID))
	require.Contains(t, out, "1 GAS")
	require.Contains(t, out, "none")
	require.Contains(t, out, "2023-11-14T22:13:20Z")
	require.Contains(t, out, "true")

	buf.Reset()
	require.NoError(t, printAuctions(&buf, []*auctionrpc.Auction{a, a}))
	require.Equal(t, 3, bytes.Count(buf.Bytes(), []byte{'\n'}))
}

func TestPrintToken(t *testing.T) {
	tok := &nftrpc.Token{
		ID:           []byte("token"),
		Owner:        util.Uint160{1},
		CollectionID: big.NewInt(7),
		MetadataURI:  "ipfs://meta",
		Creator:      util.Uint160{2},
	}

	var buf bytes.Buffer
	require.NoError(t, printToken(&buf, tok, util.Uint160{}))

	out := buf.String()
	require.Contains(t, out, formatTokenID(tok.ID))
	require.Contains(t, out, "ipfs://meta")
	require.Contains(t, out, address.Uint160ToString(tok.Creator))
	require.Contains(t, out, "none")
}

func TestPrintMarketItem(t *testing.T) {
	it := &marketrpc.MarketItem{
		ID:            big.NewInt(3),
		AssetContract: util.Uint160{1},
		TokenID:       []byte{9},
		Seller:        util.Uint160{2},
		Owner:         util.Uint160{2},
		Price:         big.NewInt(250_000_000),
		Sold:          false,
		Active:        true,
	}

	var buf bytes.Buffer
	require.NoError(t, printMarketItem(&buf, it))
	require.Contains(t, buf.String(), "2.5 GAS")
	require.Contains(t, buf.String(), address.Uint160ToString(it.Seller))
}
