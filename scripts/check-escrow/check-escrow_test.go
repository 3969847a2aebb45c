package main

import (
	"math/big"
	"testing"

	auctionrpc "github.com/nspcc-dev/nft-exchange-contract/rpc/auction"
	"github.com/stretchr/testify/require"
)

func TestEscrowedBids(t *testing.T) {
	as := []*auctionrpc.Auction{
		{Active: true, HighestBid: big.NewInt(5)},
		{Active: false, HighestBid: big.NewInt(100)},
		{Active: true, HighestBid: big.NewInt(0)},
		{Active: true},
		{Active: true, HighestBid: big.NewInt(7)},
	}
	require.EqualValues(t, 12, escrowedBids(as).Int64())
	require.Zero(t, escrowedBids(nil).Sign())
}

func TestEscrowReport(t *testing.T) {
	require.True(t, escrowReport{name: "a", balance: big.NewInt(3), expected: big.NewInt(3)}.print())
	require.False(t, escrowReport{name: "a", balance: big.NewInt(4), expected: big.NewInt(3)}.print())
}
