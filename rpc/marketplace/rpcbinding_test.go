package marketplace

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

	method string
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	t.method = operation
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	t.method = operation
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

func marketItem(id int) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(id),
		stackitem.Make(util.Uint160{2}.BytesBE()),
		stackitem.Make([]byte("token")),
		stackitem.Make(util.Uint160{1}.BytesBE()),
		stackitem.Make(util.Uint160{3}.BytesBE()),
		stackitem.Make(500),
		stackitem.Make(true),
		stackitem.Make(false),
	})
}

func TestGetItem(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.err = errors.New("bad")
	_, err := r.GetItem(big.NewInt(1))
	require.Error(t, err)

	ti.err = nil
	ti.res = halt(stackitem.Make(1))
	_, err = r.GetItem(big.NewInt(1))
	require.Error(t, err)

	ti.res = halt(marketItem(1))
	item, err := r.GetItem(big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, "getItem", ti.method)
	require.Equal(t, &MarketItem{
		ID:            big.NewInt(1),
		AssetContract: util.Uint160{2},
		TokenID:       []byte("token"),
		Seller:        util.Uint160{1},
		Owner:         util.Uint160{3},
		Price:         big.NewInt(500),
		Sold:          true,
		Active:        false,
	}, item)
}

func TestItemsExpanded(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.res = halt(stackitem.Make([]stackitem.Item{marketItem(1), marketItem(2)}))
	items, err := r.ItemsExpanded(10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, big.NewInt(2), items[1].ID)

	ti.res = halt(stackitem.Make([]stackitem.Item{
		stackitem.Make([]byte{1}),
		stackitem.Make([]byte{2}),
	}))
	ids, err := r.ItemsOfExpanded(util.Uint160{1}, 10)
	require.NoError(t, err)
	require.Equal(t, "itemsOf", ti.method)
	require.Equal(t, []*big.Int{big.NewInt(1), big.NewInt(2)}, ids)

	ti.res = halt(stackitem.Make([]stackitem.Item{stackitem.Make([]stackitem.Item{})}))
	_, err = r.ItemsOfExpanded(util.Uint160{1}, 10)
	require.ErrorContains(t, err, "item #0")
}

func TestEventsFromApplicationLog(t *testing.T) {
	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				{
					Name: "MarketItemCreated",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Make(1),
						stackitem.Make(util.Uint160{2}.BytesBE()),
						stackitem.Make([]byte("token")),
						stackitem.Make(util.Uint160{1}.BytesBE()),
						stackitem.Make(500),
					}),
				},
				{
					Name: "MarketItemSold",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Make(1),
						stackitem.Make(util.Uint160{3}.BytesBE()),
						stackitem.Make(500),
					}),
				},
			},
		}},
	}

	created, err := MarketItemCreatedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*MarketItemCreatedEvent{{
		ItemID:        big.NewInt(1),
		AssetContract: util.Uint160{2},
		TokenID:       []byte("token"),
		Seller:        util.Uint160{1},
		Price:         big.NewInt(500),
	}}, created)

	sold, err := MarketItemSoldEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, sold, 1)
	require.Equal(t, util.Uint160{3}, sold[0].Buyer)

	cancelled, err := MarketItemCancelledEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Empty(t, cancelled)

	_, err = FundsWithdrawnEventsFromApplicationLog(nil)
	require.Error(t, err)
}
