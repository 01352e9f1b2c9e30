package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	cartdto "github.com/skillnotes/skillnotes-backend/api/controllers/cart/dto"
	"github.com/skillnotes/skillnotes-backend/api/responses"
	"github.com/skillnotes/skillnotes-backend/api/validators"
	cartsvc "github.com/skillnotes/skillnotes-backend/internal/cart"
	"github.com/skillnotes/skillnotes-backend/internal/checkout"
	"github.com/skillnotes/skillnotes-backend/internal/coupons"
	pkgerrors "github.com/skillnotes/skillnotes-backend/pkg/errors"
	"github.com/skillnotes/skillnotes-backend/pkg/logger"
)

// Calculator is the slice of checkout.Calculator the cart routes drive.
type Calculator interface {
	Quote() checkout.Summary
	AddItem(ctx context.Context, item cartsvc.Item) ([]cartsvc.Item, error)
	AddProduct(ctx context.Context, lookup cartsvc.ProductLookup, id cartsvc.ProductID) ([]cartsvc.Item, error)
	RemoveItem(ctx context.Context, id cartsvc.ProductID) ([]cartsvc.Item, error)
	ApplyCoupon(ctx context.Context, code string) (coupons.Coupon, error)
	RemoveCoupon(ctx context.Context)
	Checkout(ctx context.Context) (checkout.Receipt, error)
}

// Clearer empties the cart.
type Clearer interface {
	Clear(ctx context.Context) error
}

// PurchaseReader reads the purchase log.
type PurchaseReader interface {
	Purchases(ctx context.Context) ([]cartsvc.Item, error)
	PurchaseSummary(ctx context.Context) (cartsvc.PurchaseSummary, error)
}

// CartFetch returns the priced cart.
func CartFetch(calc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout calculator unavailable"))
			return
		}
		responses.WriteSuccess(w, newCartQuote(calc.Quote()))
	}
}

// CartAddItem adds a posted product snapshot.
func CartAddItem(calc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout calculator unavailable"))
			return
		}

		var payload cartdto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := payload.ToItem()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := calc.AddItem(r.Context(), item); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(r.Context(), w, http.StatusOK, newCartQuote(calc.Quote()))
	}
}

// CartAddProduct adds a catalog product by id.
func CartAddProduct(calc Calculator, lookup cartsvc.ProductLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calc == nil || lookup == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := calc.AddProduct(r.Context(), lookup, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(r.Context(), w, http.StatusOK, newCartQuote(calc.Quote()))
	}
}

// CartRemoveItem removes a product from the cart.
func CartRemoveItem(calc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout calculator unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := calc.RemoveItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(r.Context(), w, http.StatusOK, newCartQuote(calc.Quote()))
	}
}

// CartClear empties the cart.
func CartClear(store Clearer, calc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || calc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}
		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(r.Context(), w, http.StatusOK, newCartQuote(calc.Quote()))
	}
}

// CouponApply applies a coupon code to the cart.
func CouponApply(calc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout calculator unavailable"))
			return
		}

		var payload cartdto.ApplyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := calc.ApplyCoupon(r.Context(), payload.Code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(r.Context(), w, http.StatusOK, newCartQuote(calc.Quote()))
	}
}

// CouponRemove drops the applied coupon.
func CouponRemove(calc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout calculator unavailable"))
			return
		}
		calc.RemoveCoupon(r.Context())
		responses.WriteSuccess(w, newCartQuote(calc.Quote()))
	}
}

// Checkout completes the purchase of everything in the cart.
func Checkout(calc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout calculator unavailable"))
			return
		}
		receipt, err := calc.Checkout(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(r.Context(), w, http.StatusCreated, receipt)
	}
}

// PurchasesList returns the purchase log and its summary.
func PurchasesList(reader PurchaseReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}
		items, err := reader.Purchases(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := reader.PurchaseSummary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchasesResponse{Items: items, Summary: summary})
	}
}

func productIDParam(r *http.Request) (cartsvc.ProductID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	return cartsvc.ProductID(raw), nil
}
