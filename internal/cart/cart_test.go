package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldmart/internal/clientstore"
	"goldmart/internal/domain"
)

func product(id string, price int64) domain.Product {
	return domain.Product{ID: id, Name: "item " + id, Price: decimal.NewFromInt(price), Category: "Rings"}
}

func TestAdd_SameProductMergesQuantity(t *testing.T) {
	m := New(clientstore.NewMemoryStore(), nil)
	require.NoError(t, m.Add(product("p1", 1000)))
	require.NoError(t, m.Add(product("p1", 1000)))

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)
}

func TestRemove_MissingIsNoop(t *testing.T) {
	m := New(clientstore.NewMemoryStore(), nil)
	require.NoError(t, m.Add(product("p1", 10)))
	assert.NoError(t, m.Remove("nope"))
	assert.Len(t, m.Items(), 1)
}

func TestUpdateQty(t *testing.T) {
	m := New(clientstore.NewMemoryStore(), nil)
	require.NoError(t, m.Add(product("p1", 10)))
	require.NoError(t, m.UpdateQty("p1", 5))
	require.NoError(t, m.UpdateQty("missing", 9))
	assert.Equal(t, 5, m.Items()[0].Qty)
	assert.Equal(t, 5, m.Count())
}

func TestReload_ReconstructsCart(t *testing.T) {
	store := clientstore.NewMemoryStore()
	m := New(store, nil)
	require.NoError(t, m.Add(product("p1", 1000)))
	require.NoError(t, m.Add(product("p2", 500)))
	require.NoError(t, m.Add(product("p3", 250)))
	require.NoError(t, m.UpdateQty("p1", 2))
	require.NoError(t, m.UpdateQty("p3", 4))

	reloaded := New(store, nil)
	got := reloaded.Items()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"p1", "p2", "p3"}, []string{got[0].ProductID, got[1].ProductID, got[2].ProductID})
	assert.Equal(t, []int{2, 1, 4}, []int{got[0].Qty, got[1].Qty, got[2].Qty})
	assert.True(t, reloaded.Total().Equal(m.Total()))
}

func TestTotal(t *testing.T) {
	m := New(clientstore.NewMemoryStore(), nil)
	require.NoError(t, m.Add(product("p1", 1000)))
	require.NoError(t, m.Add(product("p1", 1000)))
	require.NoError(t, m.Add(product("p2", 500)))
	assert.True(t, m.Total().Equal(decimal.NewFromInt(2500)))
}

func TestClear_PersistsEmptyList(t *testing.T) {
	store := clientstore.NewMemoryStore()
	m := New(store, nil)
	require.NoError(t, m.Add(product("p1", 1)))
	require.NoError(t, m.Clear())

	raw, ok, _ := store.Get(clientstore.KeyCart)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)
	assert.True(t, m.Empty())
}

func TestNew_CorruptStoreStartsEmpty(t *testing.T) {
	store := clientstore.NewMemoryStore()
	require.NoError(t, store.Set(clientstore.KeyCart, "not json"))
	assert.Empty(t, New(store, nil).Items())
}

type failingStore struct{ *clientstore.MemoryStore }

func (failingStore) Set(string, string) error { return errors.New("disk full") }

func TestMutation_PersistFailureLeavesStateUntouched(t *testing.T) {
	m := New(failingStore{clientstore.NewMemoryStore()}, nil)
	assert.Error(t, m.Add(product("p1", 1)))
	assert.Empty(t, m.Items())
}
