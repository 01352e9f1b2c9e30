package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/skillnotes/skillnotes-backend/internal/cart"
	"github.com/skillnotes/skillnotes-backend/internal/coupons"
	"github.com/skillnotes/skillnotes-backend/internal/notifications"
	"github.com/skillnotes/skillnotes-backend/pkg/enums"
	"github.com/skillnotes/skillnotes-backend/pkg/logger"
	"github.com/skillnotes/skillnotes-backend/pkg/metrics"
)

const (
	msgAddedToCart       = "Added to cart!"
	msgRemovedFromCart   = "Removed from cart"
	msgPurchaseCompleted = "Purchase completed!"
	msgPurchaseFailed    = "Purchase failed"
)

type cartStore interface {
	Snapshot() cart.Snapshot
	AddItem(ctx context.Context, item cart.Item) ([]cart.Item, error)
	AddProduct(ctx context.Context, lookup cart.ProductLookup, id cart.ProductID) ([]cart.Item, error)
	RemoveItem(ctx context.Context, id cart.ProductID) ([]cart.Item, error)
	CompletePurchase(ctx context.Context) (cart.PurchaseResult, error)
}

// Params wires a Calculator.
type Params struct {
	Cart     cartStore
	Coupons  coupons.Table
	Notifier notifications.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.CartMetrics
}

// Summary is the priced view of the cart shown on the order summary panel.
type Summary struct {
	Items     []cart.Item     `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	Coupon    *coupons.Coupon `json:"coupon,omitempty"`
}

// Calculator prices the cart against at most one applied coupon and drives
// checkout. The applied coupon lives only in memory.
type Calculator struct {
	mu      sync.Mutex
	applied *coupons.Coupon

	cart     cartStore
	coupons  coupons.Table
	notifier notifications.Notifier
	logg     *logger.Logger
	metrics  *metrics.CartMetrics
}

// NewCalculator builds a Calculator. Cart and Coupons are required.
func NewCalculator(p Params) (*Calculator, error) {
	if p.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if p.Coupons == nil {
		return nil, fmt.Errorf("coupon table required")
	}
	if p.Notifier == nil {
		p.Notifier = notifications.Nop
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	return &Calculator{
		cart:     p.Cart,
		coupons:  p.Coupons,
		notifier: p.Notifier,
		logg:     p.Logger,
		metrics:  p.Metrics,
	}, nil
}

// ApplyCoupon validates code against the current subtotal. On success the
// coupon replaces any applied one; a rejection leaves the applied coupon as it
// was and is returned as *coupons.RejectionError.
func (c *Calculator) ApplyCoupon(ctx context.Context, code string) (coupons.Coupon, error) {
	subtotal := c.cart.Snapshot().Subtotal

	coupon, err := c.coupons.Validate(code, subtotal)
	if err != nil {
		outcome := "rejected"
		if rejection, ok := coupons.AsRejection(err); ok {
			outcome = rejection.ReasonKey()
			c.notifier.Notify(ctx, enums.NotificationError, rejection.Message())
		}
		c.metrics.ObserveCoupon(outcome)
		return coupons.Coupon{}, err
	}

	c.mu.Lock()
	c.applied = &coupon
	c.mu.Unlock()

	c.metrics.ObserveCoupon("applied")
	c.logg.Info(c.logg.WithCoupon(ctx, coupon.Code), "checkout.coupon.applied")
	return coupon, nil
}

// RemoveCoupon clears the applied coupon. It is idempotent.
func (c *Calculator) RemoveCoupon(ctx context.Context) {
	c.mu.Lock()
	c.applied = nil
	c.mu.Unlock()
}

// AppliedCoupon returns a copy of the applied coupon, or nil.
func (c *Calculator) AppliedCoupon() *coupons.Coupon {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.applied == nil {
		return nil
	}
	coupon := *c.applied
	return &coupon
}

// Discount is the applied coupon's discount on the live subtotal.
func (c *Calculator) Discount() decimal.Decimal {
	return discountFor(c.AppliedCoupon(), c.cart.Snapshot().Subtotal)
}

// FinalTotal is subtotal minus discount.
func (c *Calculator) FinalTotal() decimal.Decimal {
	return c.Quote().Total
}

// Quote prices one consistent snapshot of the cart.
func (c *Calculator) Quote() Summary {
	snap := c.cart.Snapshot()
	coupon := c.AppliedCoupon()
	discount := discountFor(coupon, snap.Subtotal)
	return Summary{
		Items:     snap.Items,
		ItemCount: len(snap.Items),
		Subtotal:  snap.Subtotal,
		Discount:  discount,
		Total:     finalTotal(snap.Subtotal, discount),
		Coupon:    coupon,
	}
}

// AddItem adds item to the cart and announces it.
func (c *Calculator) AddItem(ctx context.Context, item cart.Item) ([]cart.Item, error) {
	items, err := c.cart.AddItem(ctx, item)
	if err != nil {
		return items, err
	}
	c.notifier.Notify(ctx, enums.NotificationSuccess, msgAddedToCart)
	return items, nil
}

// AddProduct resolves id through lookup, adds it and announces it.
func (c *Calculator) AddProduct(ctx context.Context, lookup cart.ProductLookup, id cart.ProductID) ([]cart.Item, error) {
	items, err := c.cart.AddProduct(ctx, lookup, id)
	if err != nil {
		return items, err
	}
	c.notifier.Notify(ctx, enums.NotificationSuccess, msgAddedToCart)
	return items, nil
}

// RemoveItem removes id from the cart and announces it.
func (c *Calculator) RemoveItem(ctx context.Context, id cart.ProductID) ([]cart.Item, error) {
	items, err := c.cart.RemoveItem(ctx, id)
	if err != nil {
		return items, err
	}
	c.notifier.Notify(ctx, enums.NotificationSuccess, msgRemovedFromCart)
	return items, nil
}

// Checkout completes the purchase. On success the applied coupon is dropped;
// on failure the coupon and cart are untouched and the error is returned.
func (c *Calculator) Checkout(ctx context.Context) (Receipt, error) {
	quote := c.Quote()

	result, err := c.cart.CompletePurchase(ctx)
	if err != nil {
		c.logg.Error(ctx, "checkout.purchase.failed", err)
		c.notifier.Notify(ctx, enums.NotificationError, msgPurchaseFailed)
		return Receipt{}, err
	}

	c.RemoveCoupon(ctx)
	c.notifier.Notify(ctx, enums.NotificationSuccess, msgPurchaseCompleted)

	discount := discountFor(quote.Coupon, result.Amount)
	return Receipt{
		PurchaseID: result.PurchaseID.String(),
		ItemCount:  result.ItemCount,
		Subtotal:   result.Amount,
		Discount:   discount,
		Total:      finalTotal(result.Amount, discount),
		Coupon:     quote.Coupon,
	}, nil
}

// Receipt describes a completed checkout.
type Receipt struct {
	PurchaseID string          `json:"purchase_id"`
	ItemCount  int             `json:"item_count"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	Coupon     *coupons.Coupon `json:"coupon,omitempty"`
}

func discountFor(coupon *coupons.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	return coupon.Discount.Amount(subtotal)
}

func finalTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		panic(fmt.Sprintf("checkout: negative total %s (subtotal %s, discount %s)", total, subtotal, discount))
	}
	return total
}
