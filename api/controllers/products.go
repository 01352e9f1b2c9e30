package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/skillnotes/skillnotes-backend/api/responses"
	"github.com/skillnotes/skillnotes-backend/internal/cart"
	"github.com/skillnotes/skillnotes-backend/internal/catalog"
	pkgerrors "github.com/skillnotes/skillnotes-backend/pkg/errors"
	"github.com/skillnotes/skillnotes-backend/pkg/logger"
)

// Catalog lists and resolves products.
type Catalog interface {
	List(ctx context.Context, f catalog.Filter) []cart.Item
	GetProduct(ctx context.Context, id cart.ProductID) (cart.Item, error)
}

// CartState answers the per-product badges on the detail page.
type CartState interface {
	Contains(id cart.ProductID) bool
	HasPurchased(ctx context.Context, id cart.ProductID) (bool, error)
}

type productDetail struct {
	cart.Item
	InCart    bool `json:"in_cart"`
	Purchased bool `json:"purchased"`
}

// ProductsList returns catalog products filtered by category, search and price range.
func ProductsList(c Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		q := r.URL.Query()
		filter := catalog.Filter{
			Category: strings.TrimSpace(q.Get("category")),
			Search:   strings.TrimSpace(q.Get("search")),
		}
		var err error
		if filter.MinPrice, err = priceParam(q.Get("min_price"), "min_price"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.MaxPrice, err = priceParam(q.Get("max_price"), "max_price"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, c.List(r.Context(), filter))
	}
}

// ProductGet returns one product with its cart and purchase badges.
func ProductGet(c Catalog, state CartState, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil || state == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		id := cart.ProductID(strings.TrimSpace(chi.URLParam(r, "id")))
		item, err := c.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		purchased, err := state.HasPurchased(r.Context(), item.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, productDetail{
			Item:      item,
			InCart:    state.Contains(item.ID),
			Purchased: purchased,
		})
	}
}

func priceParam(raw, name string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name).
			WithDetails(map[string]string{name: "must be a number"})
	}
	return &v, nil
}
