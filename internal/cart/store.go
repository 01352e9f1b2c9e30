package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skillnotes/skillnotes-backend/internal/storage"
	pkgerrors "github.com/skillnotes/skillnotes-backend/pkg/errors"
	"github.com/skillnotes/skillnotes-backend/pkg/logger"
	"github.com/skillnotes/skillnotes-backend/pkg/metrics"
)

const (
	DefaultCartKey      = "skillnotes-cart"
	DefaultPurchasesKey = "skillnotes-purchases"
)

// ProductLookup resolves a catalog product into a cart snapshot.
type ProductLookup interface {
	GetProduct(ctx context.Context, id ProductID) (Item, error)
}

// Params wires a Store.
type Params struct {
	Storage      storage.Store
	CartKey      string
	PurchasesKey string
	Logger       *logger.Logger
	Metrics      *metrics.CartMetrics
}

// Store owns the live cart and the purchase log. Every mutation is written
// through to storage before it becomes visible in memory; a failed write leaves
// the in-memory cart exactly as it was.
type Store struct {
	mu sync.Mutex

	storage      storage.Store
	cartKey      string
	purchasesKey string
	logg         *logger.Logger
	metrics      *metrics.CartMetrics

	items []Item
	index map[ProductID]int
}

// Snapshot is a consistent read of the cart.
type Snapshot struct {
	Items    []Item
	Subtotal decimal.Decimal
}

// NewStore hydrates the cart from storage. A missing or undecodable entry starts
// an empty cart; a storage read failure is returned.
func NewStore(ctx context.Context, p Params) (*Store, error) {
	if p.Storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if p.CartKey == "" {
		p.CartKey = DefaultCartKey
	}
	if p.PurchasesKey == "" {
		p.PurchasesKey = DefaultPurchasesKey
	}
	if p.CartKey == p.PurchasesKey {
		return nil, fmt.Errorf("cart and purchases keys must differ")
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}

	s := &Store{
		storage:      p.Storage,
		cartKey:      p.CartKey,
		purchasesKey: p.PurchasesKey,
		logg:         p.Logger,
		metrics:      p.Metrics,
	}

	raw, err := p.Storage.Load(ctx, p.CartKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.replace(nil)
		return s, nil
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	items, err := decodeItems(raw)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": p.CartKey, "error": err.Error()}), "cart.load.discarded")
		items = nil
	}
	s.replace(dedupe(items))
	return s, nil
}

// AddItem appends item unless its id is already present. It returns the cart
// after the call.
func (s *Store) AddItem(ctx context.Context, item Item) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[item.ID]; ok {
		return cloneItems(s.items), nil
	}

	next := append(cloneItems(s.items), item.clone())
	err := s.persistCart(ctx, "add", next)
	s.metrics.ObserveMutation("add", err)
	if err != nil {
		return cloneItems(s.items), err
	}
	s.replace(next)
	return cloneItems(s.items), nil
}

// AddProduct resolves id through the catalog and adds the resulting snapshot.
func (s *Store) AddProduct(ctx context.Context, lookup ProductLookup, id ProductID) ([]Item, error) {
	if lookup == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product lookup unavailable")
	}
	if s.Contains(id) {
		return s.Items(), nil
	}
	item, err := lookup.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.AddItem(ctx, item)
}

// RemoveItem drops the item with id. Removing an absent id is a no-op.
func (s *Store) RemoveItem(ctx context.Context, id ProductID) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return cloneItems(s.items), nil
	}

	next := make([]Item, 0, len(s.items)-1)
	next = append(next, cloneItems(s.items[:pos])...)
	next = append(next, cloneItems(s.items[pos+1:])...)

	err := s.persistCart(ctx, "remove", next)
	s.metrics.ObserveMutation("remove", err)
	if err != nil {
		return cloneItems(s.items), err
	}
	s.replace(next)
	return cloneItems(s.items), nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.persistCart(ctx, "clear", nil)
	s.metrics.ObserveMutation("clear", err)
	if err != nil {
		return err
	}
	s.replace(nil)
	return nil
}

// Items returns a copy of the cart in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Contains reports whether id is in the cart.
func (s *Store) Contains(id ProductID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[id]
	return ok
}

// TotalItemCount is the number of distinct products in the cart.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalPrice is the exact sum of item prices.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Subtotal(s.items)
}

// Snapshot returns items and subtotal read under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Items: cloneItems(s.items), Subtotal: Subtotal(s.items)}
}

func (s *Store) persistCart(ctx context.Context, op string, items []Item) error {
	data, err := encodeItems(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	return s.save(ctx, op, storage.Entry{Key: s.cartKey, Value: data})
}

func (s *Store) save(ctx context.Context, op string, entries ...storage.Entry) error {
	start := time.Now()
	err := s.storage.Save(ctx, entries...)
	s.metrics.ObserveStorageWrite(op, time.Since(start))
	if err != nil {
		s.logg.Error(s.logg.WithOperation(ctx, op), "cart.persist.failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist "+op)
	}
	return nil
}

// replace swaps in a new item list and rebuilds the id index. Callers hold mu.
func (s *Store) replace(items []Item) {
	if items == nil {
		items = []Item{}
	}
	s.items = items
	s.index = make(map[ProductID]int, len(items))
	for i, item := range items {
		s.index[item.ID] = i
	}
}

func dedupe(items []Item) []Item {
	seen := make(map[ProductID]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
