package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skillnotes/skillnotes-backend/internal/storage"
	pkgerrors "github.com/skillnotes/skillnotes-backend/pkg/errors"
)

// PurchaseResult describes a completed purchase transition.
type PurchaseResult struct {
	PurchaseID uuid.UUID       `json:"purchase_id"`
	ItemCount  int             `json:"item_count"`
	Amount     decimal.Decimal `json:"amount"`
	Items      []Item          `json:"items"`
}

// PurchaseSummary aggregates the purchase log for the purchases page.
type PurchaseSummary struct {
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
	Categories []string        `json:"categories"`
}

// CompletePurchase appends every cart item to the purchase log and empties the
// cart. Both entries are written in one storage call; if it fails nothing
// changes, in memory or in storage.
func (s *Store) CompletePurchase(ctx context.Context) (PurchaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadPurchases(ctx)
	if err != nil {
		s.metrics.ObserveMutation("complete_purchase", err)
		return PurchaseResult{}, err
	}

	bought := cloneItems(s.items)
	purchases := make([]Item, 0, len(existing)+len(bought))
	purchases = append(purchases, existing...)
	purchases = append(purchases, bought...)

	purchaseData, err := encodeItems(purchases)
	if err != nil {
		return PurchaseResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode purchases")
	}
	cartData, err := encodeItems(nil)
	if err != nil {
		return PurchaseResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}

	err = s.save(ctx, "complete_purchase",
		storage.Entry{Key: s.purchasesKey, Value: purchaseData},
		storage.Entry{Key: s.cartKey, Value: cartData},
	)
	s.metrics.ObserveMutation("complete_purchase", err)
	if err != nil {
		return PurchaseResult{}, err
	}
	s.replace(nil)

	result := PurchaseResult{
		PurchaseID: uuid.New(),
		ItemCount:  len(bought),
		Amount:     Subtotal(bought),
		Items:      bought,
	}
	s.metrics.ObservePurchase(result.ItemCount)

	logCtx := s.logg.WithPurchaseID(ctx, result.PurchaseID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"item_count": result.ItemCount,
		"amount":     result.Amount.String(),
	})
	s.logg.Info(logCtx, "cart.purchase.completed")
	return result, nil
}

// Purchases returns every item ever purchased, oldest first.
func (s *Store) Purchases(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPurchases(ctx)
}

// HasPurchased reports whether id appears in the purchase log.
func (s *Store) HasPurchased(ctx context.Context, id ProductID) (bool, error) {
	purchases, err := s.Purchases(ctx)
	if err != nil {
		return false, err
	}
	for _, item := range purchases {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// PurchaseSummary counts and totals the purchase log.
func (s *Store) PurchaseSummary(ctx context.Context) (PurchaseSummary, error) {
	purchases, err := s.Purchases(ctx)
	if err != nil {
		return PurchaseSummary{}, err
	}
	summary := PurchaseSummary{
		Count:      len(purchases),
		Total:      Subtotal(purchases),
		Categories: []string{},
	}
	seen := map[string]struct{}{}
	for _, item := range purchases {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		summary.Categories = append(summary.Categories, item.Category)
	}
	return summary, nil
}

// loadPurchases reads the log. A corrupt log is an error, never an empty history.
// Callers hold mu.
func (s *Store) loadPurchases(ctx context.Context) ([]Item, error) {
	raw, err := s.storage.Load(ctx, s.purchasesKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchases")
	}
	items, err := decodeItems(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode purchases")
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}
