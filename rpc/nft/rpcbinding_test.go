package nft

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}
func (t *testInv) TraverseIterator(uuid.UUID, *result.Iterator, int) ([]stackitem.Item, error) {
	return nil, nil
}
func (t *testInv) TerminateSession(uuid.UUID) error {
	return nil
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{
		State: "HALT",
		Stack: items,
	}
}

func TestGetToken(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.err = errors.New("bad")
	_, err := r.GetToken([]byte("token"))
	require.Error(t, err)

	ti.err = nil
	ti.res = halt(stackitem.NewStruct([]stackitem.Item{
		stackitem.Make([]byte("token")),
		stackitem.Make(util.Uint160{1}.BytesBE()),
		stackitem.Make(7),
		stackitem.Make("ipfs://token"),
		stackitem.Make(util.Uint160{2}.BytesBE()),
	}))
	tok, err := r.GetToken([]byte("token"))
	require.NoError(t, err)
	require.Equal(t, &Token{
		ID:           []byte("token"),
		Owner:        util.Uint160{1},
		CollectionID: big.NewInt(7),
		MetadataURI:  "ipfs://token",
		Creator:      util.Uint160{2},
	}, tok)

	ti.res = halt(stackitem.NewStruct([]stackitem.Item{
		stackitem.Make([]byte("token")),
		stackitem.Make(util.Uint160{1}.BytesBE()),
		stackitem.Make(7),
		stackitem.Make([]byte{0xff, 0xfe}),
		stackitem.Make(util.Uint160{2}.BytesBE()),
	}))
	_, err = r.GetToken([]byte("token"))
	require.ErrorContains(t, err, "field MetadataURI")
}

func TestGetCollection(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.res = halt(stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(1),
		stackitem.Make(util.Uint160{1}.BytesBE()),
		stackitem.Make("art"),
	}))
	c, err := r.GetCollection(big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, &Collection{ID: big.NewInt(1), Owner: util.Uint160{1}, Name: "art"}, c)

	ti.res = halt(stackitem.NewStruct([]stackitem.Item{stackitem.Make(1)}))
	_, err = r.GetCollection(big.NewInt(1))
	require.Error(t, err)
}

func TestGetApproved(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.res = halt(stackitem.Null{})
	h, err := r.GetApproved([]byte("token"))
	require.NoError(t, err)
	require.Equal(t, util.Uint160{}, h)

	ti.res = halt(stackitem.Make(util.Uint160{5}.BytesBE()))
	h, err = r.GetApproved([]byte("token"))
	require.NoError(t, err)
	require.Equal(t, util.Uint160{5}, h)
}

func TestTokensOfCollectionExpanded(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.res = halt(stackitem.Make([]stackitem.Item{
		stackitem.Make([]byte("a")),
		stackitem.Make([]byte("b")),
	}))
	ids, err := r.TokensOfCollectionExpanded(big.NewInt(1), 10)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("a"), []byte("b")}, ids)
}

func TestEventsFromApplicationLog(t *testing.T) {
	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				{
					Name: "Transfer",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Null{},
						stackitem.Make(util.Uint160{1}.BytesBE()),
						stackitem.Make(1),
						stackitem.Make([]byte("token")),
					}),
				},
				{
					Name: "Approval",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Make(util.Uint160{1}.BytesBE()),
						stackitem.Null{},
						stackitem.Make([]byte("token")),
					}),
				},
			},
		}},
	}

	transfers, err := TransferEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*TransferEvent{{
		From:    util.Uint160{},
		To:      util.Uint160{1},
		Amount:  big.NewInt(1),
		TokenID: []byte("token"),
	}}, transfers)

	approvals, err := ApprovalEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, approvals, 1)
	require.Equal(t, util.Uint160{}, approvals[0].Operator)

	minted, err := NFTMintedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Empty(t, minted)
}
