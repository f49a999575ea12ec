package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d085/storefront/internal/catalog"
)

func newTestStore(t *testing.T) (*Store, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	store := NewStore(storage, "session-1")
	store.Load()
	return store, storage
}

func TestAddMergesByIdentityKey(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Add(LineItem{ProductID: 1, Name: "Whey", Price: 12990, Quantity: 2, Variation: "Baunilha"}))
	require.NoError(t, store.Add(LineItem{ProductID: 1, Name: "Whey", Price: 12990, Quantity: 3, Variation: "Baunilha"}))
	require.NoError(t, store.Add(LineItem{ProductID: 1, Name: "Whey", Price: 12990, Quantity: 1, Variation: "Chocolate"}))

	items := store.Items()
	require.Len(t, items, 2, "same product id with different variation is a distinct line item")
	assert.Equal(t, 5, items[0].Quantity, "quantities merged for the same key")
	assert.Equal(t, "Baunilha", items[0].Variation)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestAddMergeInvariantOverSequences(t *testing.T) {
	store, _ := newTestStore(t)

	adds := []int{1, 4, 2, 7, 1}
	want := 0
	for _, qty := range adds {
		require.NoError(t, store.Add(LineItem{ProductID: 9, Name: "Creatina", Price: 8990, Quantity: qty}))
		want += qty
	}

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, want, items[0].Quantity)
}

func TestAddCoercesZeroQuantityToOne(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(LineItem{ProductID: 1, Quantity: 0}))
	assert.Equal(t, 1, store.TotalQuantity())
}

func TestSetQuantity(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(LineItem{ProductID: 1, Name: "A", Price: 100, Quantity: 2}))
	require.NoError(t, store.Add(LineItem{ProductID: 2, Name: "B", Price: 200, Quantity: 1}))

	require.NoError(t, store.SetQuantity(1, "", 5))
	items := store.Items()
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, int64(1), items[0].ProductID, "position preserved")

	// zero removes, regardless of prior quantity
	require.NoError(t, store.SetQuantity(1, "", 0))
	items = store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ProductID)

	// no-op without a match
	require.NoError(t, store.SetQuantity(99, "", 3))
	assert.Len(t, store.Items(), 1)
}

func TestRemoveAndClear(t *testing.T) {
	store, storage := newTestStore(t)
	require.NoError(t, store.Add(LineItem{ProductID: 1, Quantity: 1}))
	require.NoError(t, store.Add(LineItem{ProductID: 2, Quantity: 1}))

	require.NoError(t, store.Remove(1, ""))
	assert.Len(t, store.Items(), 1)

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Items())

	data, err := storage.Get("cart/session-1")
	require.NoError(t, err)
	assert.Empty(t, data, "clear drops the persisted slot")
}

func TestDerivedTotals(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Add(LineItem{ProductID: 1, Price: 1000, Quantity: 2}))
	require.NoError(t, store.Add(LineItem{ProductID: 2, Price: 2500, Quantity: 1}))

	assert.Equal(t, 3, store.TotalQuantity())
	assert.Equal(t, int64(4500), store.Subtotal())
}

func TestPersistenceRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()

	store := NewStore(storage, "s1")
	store.Load()
	require.NoError(t, store.Add(LineItem{ProductID: 7, Name: "Camiseta", Price: 4990, Quantity: 2, Variation: "M", ImageURL: "https://img/1.png"}))

	rehydrated := NewStore(storage, "s1")
	rehydrated.Load()
	items := rehydrated.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Camiseta", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "M", items[0].Variation)
}

func TestLoadWithoutStorageIsSilentNoop(t *testing.T) {
	store := NewStore(nil, "s1")
	store.Load()
	require.NoError(t, store.Add(LineItem{ProductID: 1, Quantity: 1}))
	assert.Equal(t, 1, store.TotalQuantity())
}

func TestLoadIgnoresCorruptSlot(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Put("cart/s1", []byte("not json")))

	store := NewStore(storage, "s1")
	store.Load()
	assert.Empty(t, store.Items())
}

func TestAddProductSnapshots(t *testing.T) {
	store, _ := newTestStore(t)

	p := catalog.Product{
		ID:    3,
		Name:  "Whey Protein",
		Price: 12990,
		Images: []catalog.Image{
			{ID: "img-1", URL: "https://img/whey.png"},
			{ID: "img-2", URL: "https://img/whey-2.png"},
		},
	}
	require.NoError(t, store.AddProduct(p, "Chocolate", 2))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "https://img/whey.png", items[0].ImageURL, "first image snapshot")
	assert.Equal(t, int64(12990), items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestPaymentIntent(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Empty(t, store.PaymentIntent())
	require.NoError(t, store.SetPaymentIntent("pi_123"))
	assert.Equal(t, "pi_123", store.PaymentIntent())
	require.NoError(t, store.SetPaymentIntent(""))
	assert.Empty(t, store.PaymentIntent())
}

func TestBoltStorageRoundTrip(t *testing.T) {
	path := t.TempDir() + "/carts.db"
	storage, err := NewBoltStorage(path)
	require.NoError(t, err)
	defer storage.Close()

	store := NewStore(storage, "bolt-session")
	store.Load()
	require.NoError(t, store.Add(LineItem{ProductID: 1, Name: "A", Price: 500, Quantity: 3}))

	again := NewStore(storage, "bolt-session")
	again.Load()
	assert.Equal(t, 3, again.TotalQuantity())

	require.NoError(t, again.Clear())
	empty := NewStore(storage, "bolt-session")
	empty.Load()
	assert.Empty(t, empty.Items())
}
