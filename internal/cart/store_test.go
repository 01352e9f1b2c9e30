package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnotes/skillnotes-backend/internal/storage"
	pkgerrors "github.com/skillnotes/skillnotes-backend/pkg/errors"
	"github.com/skillnotes/skillnotes-backend/pkg/metrics"
)

func newTestStore(t *testing.T, backend storage.Store) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), Params{
		Storage: backend,
		Metrics: metrics.NewCartMetrics(prometheus.NewRegistry()),
	})
	require.NoError(t, err)
	return store
}

func item(id string, price int64) Item {
	return Item{
		ID:       ProductID(id),
		Title:    "Notes " + id,
		Category: "Computer Science",
		FileType: "pdf",
		Price:    decimal.NewFromInt(price),
	}
}

func TestAddItemIsIdempotent(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	store := newTestStore(t, backend)

	x := item("1", 199)
	_, err := store.AddItem(ctx, x)
	require.NoError(t, err)
	items, err := store.AddItem(ctx, x)
	require.NoError(t, err)

	assert.Len(t, items, 1)
	assert.Equal(t, 1, store.TotalItemCount())
	assert.Equal(t, 1, backend.Saves(), "duplicate add must not write")
}

func TestAddItemKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemory())

	for _, id := range []string{"3", "1", "2"} {
		_, err := store.AddItem(ctx, item(id, 10))
		require.NoError(t, err)
	}

	var ids []ProductID
	for _, it := range store.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []ProductID{"3", "1", "2"}, ids)
}

func TestRemoveThenAddRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemory())

	x := item("7", 50)
	_, err := store.AddItem(ctx, x)
	require.NoError(t, err)
	items, err := store.RemoveItem(ctx, x.ID)
	require.NoError(t, err)

	assert.Empty(t, items)
	assert.False(t, store.Contains(x.ID))

	_, err = store.AddItem(ctx, x)
	require.NoError(t, err)
	assert.True(t, store.Contains(x.ID))
}

func TestRemoveMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	store := newTestStore(t, backend)
	_, err := store.AddItem(ctx, item("1", 10))
	require.NoError(t, err)

	items, err := store.RemoveItem(ctx, "missing")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, backend.Saves())
}

func TestRemoveMiddleItemReindexes(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemory())
	for _, id := range []string{"a", "b", "c"} {
		_, err := store.AddItem(ctx, item(id, 1))
		require.NoError(t, err)
	}

	_, err := store.RemoveItem(ctx, "b")
	require.NoError(t, err)
	_, err = store.RemoveItem(ctx, "c")
	require.NoError(t, err)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, ProductID("a"), items[0].ID)
}

func TestTotalPriceMatchesIndependentSum(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemory())

	prices := []string{"0.10", "0.20", "199", "49.99"}
	for i, p := range prices {
		it := item(string(rune('a'+i)), 0)
		it.Price = decimal.RequireFromString(p)
		_, err := store.AddItem(ctx, it)
		require.NoError(t, err)
	}

	want := decimal.Zero
	for _, it := range store.Items() {
		want = want.Add(it.Price)
	}
	assert.True(t, store.TotalPrice().Equal(want))
	assert.True(t, store.TotalPrice().Equal(decimal.RequireFromString("249.29")))
	assert.True(t, store.Snapshot().Subtotal.Equal(want))
}

func TestItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemory())
	rating := 4.5
	it := item("1", 10)
	it.Rating = &rating
	_, err := store.AddItem(ctx, it)
	require.NoError(t, err)

	items := store.Items()
	items[0].Title = "mutated"
	*items[0].Rating = 1
	items = append(items, item("2", 10))

	fresh := store.Items()
	require.Len(t, fresh, 1)
	assert.Equal(t, "Notes 1", fresh[0].Title)
	assert.Equal(t, 4.5, *fresh[0].Rating)
	assert.Equal(t, 1, store.TotalItemCount())
}

func TestPersistenceRoundtripAcrossRestart(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	store := newTestStore(t, backend)

	x := item("42", 120)
	original := decimal.NewFromInt(150)
	x.OriginalPrice = &original
	_, err := store.AddItem(ctx, x)
	require.NoError(t, err)

	reloaded := newTestStore(t, backend)
	items := reloaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, x.ID, items[0].ID)
	assert.True(t, items[0].Price.Equal(x.Price))
	assert.True(t, items[0].Savings().Equal(decimal.NewFromInt(30)))
}

func TestNewStoreLoadsLegacyNumericIDsAndDedupes(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	legacy := `[{"id":1,"title":"DSA","price":299},{"id":"1","title":"dup","price":1},{"id":2,"title":"OS","price":149.5}]`
	require.NoError(t, backend.Save(ctx, storage.Entry{Key: DefaultCartKey, Value: []byte(legacy)}))

	store := newTestStore(t, backend)
	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, ProductID("1"), items[0].ID)
	assert.Equal(t, "DSA", items[0].Title)
	assert.True(t, store.TotalPrice().Equal(decimal.RequireFromString("448.5")))
}

func TestNewStoreDiscardsCorruptCart(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Save(ctx, storage.Entry{Key: DefaultCartKey, Value: []byte(`{not json`)}))

	store := newTestStore(t, backend)
	assert.Zero(t, store.TotalItemCount())
}

func TestNewStoreValidatesParams(t *testing.T) {
	_, err := NewStore(context.Background(), Params{})
	assert.Error(t, err)

	_, err = NewStore(context.Background(), Params{Storage: storage.NewMemory(), CartKey: "same", PurchasesKey: "same"})
	assert.Error(t, err)
}

func TestNewStoreSurfacesReadFailure(t *testing.T) {
	_, err := NewStore(context.Background(), Params{Storage: failingLoadStore{err: errors.New("io")}})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestFailedWriteLeavesMemoryUntouched(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	store := newTestStore(t, backend)
	_, err := store.AddItem(ctx, item("1", 10))
	require.NoError(t, err)

	backend.FailWith(errors.New("quota exceeded"))

	items, err := store.AddItem(ctx, item("2", 20))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Len(t, items, 1)

	_, err = store.RemoveItem(ctx, "1")
	require.Error(t, err)
	assert.True(t, store.Contains("1"))

	require.Error(t, store.Clear(ctx))
	assert.Equal(t, 1, store.TotalItemCount())
}

func TestClearEmptiesAndPersists(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	store := newTestStore(t, backend)
	_, err := store.AddItem(ctx, item("1", 10))
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx))
	assert.Zero(t, store.TotalItemCount())

	raw, err := backend.Load(ctx, DefaultCartKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestAddProductUsesLookup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemory())
	lookup := &stubLookup{items: map[ProductID]Item{"9": item("9", 75)}}

	items, err := store.AddProduct(ctx, lookup, "9")
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = store.AddProduct(ctx, lookup, "9")
	require.NoError(t, err)
	assert.Equal(t, 1, lookup.calls, "present items skip the catalog")

	_, err = store.AddProduct(ctx, lookup, "404")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, 1, store.TotalItemCount())
}

func TestItemJSONShape(t *testing.T) {
	it := item("5", 99)
	data, err := json.Marshal(it)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "5", raw["id"])
	assert.Equal(t, "pdf", raw["fileType"])
	assert.NotContains(t, raw, "originalPrice")
}

type stubLookup struct {
	items map[ProductID]Item
	calls int
}

func (s *stubLookup) GetProduct(ctx context.Context, id ProductID) (Item, error) {
	s.calls++
	it, ok := s.items[id]
	if !ok {
		return Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return it, nil
}

type failingLoadStore struct {
	err error
}

func (f failingLoadStore) Load(ctx context.Context, key string) ([]byte, error) { return nil, f.err }
func (f failingLoadStore) Save(ctx context.Context, entries ...storage.Entry) error {
	return f.err
}
