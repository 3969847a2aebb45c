package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	for _, env := range []string{"EXCHANGE_RPC", "EXCHANGE_NFT", "EXCHANGE_AUCTION", "EXCHANGE_MARKETPLACE"} {
		t.Setenv(env, "")
	}

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf

	err := app.Run(append([]string{"exchange-cli"}, args...))
	return buf.String(), err
}

func TestCommands(t *testing.T) {
	app := newApp()

	sub := make(map[string][]string)
	for _, c := range app.Commands {
		for _, s := range c.Subcommands {
			sub[c.Name] = append(sub[c.Name], s.Name)
		}
	}

	require.Subset(t, sub["auction"], []string{"show", "list", "pending", "bid", "finalize", "withdraw"})
	require.Subset(t, sub["nft"], []string{"token", "collection"})
	require.Subset(t, sub["market"], []string{"item", "buy"})
	require.NotNil(t, app.Command("deploy"))
}

func TestCommandArguments(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
		err  string
	}{
		{"missing endpoint", []string{"auction", "list"}, "missing Neo RPC endpoint"},
		{"missing token", []string{"nft", "token"}, "empty token ID"},
		{"invalid token", []string{"nft", "token", "--token", "0OIl"}, "base58"},
		{"non-positive count", []string{"nft", "collection", "--count", "0"}, "non-positive --count"},
		{"missing item", []string{"market", "item"}, "invalid --id"},
		{"invalid bid", []string{"auction", "bid", "--amount", "-1"}, "GAS amount"},
		{"missing contracts", []string{"deploy", "--contracts", "/nonexistent"}, "read contracts"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runApp(t, tc.args...)
			require.ErrorContains(t, err, tc.err)
		})
	}
}

func TestHelp(t *testing.T) {
	out, err := runApp(t, "auction", "--help")
	require.NoError(t, err)
	require.Contains(t, out, "pending")
}
