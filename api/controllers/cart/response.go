package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/skillnotes/skillnotes-backend/internal/cart"
	"github.com/skillnotes/skillnotes-backend/internal/checkout"
)

type cartQuote struct {
	Items     []cartsvc.Item  `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Savings   decimal.Decimal `json:"savings"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	Coupon    *appliedCoupon  `json:"coupon,omitempty"`
}

type appliedCoupon struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type purchasesResponse struct {
	Items   []cartsvc.Item          `json:"items"`
	Summary cartsvc.PurchaseSummary `json:"summary"`
}

func newCartQuote(s checkout.Summary) cartQuote {
	savings := decimal.Zero
	for _, item := range s.Items {
		savings = savings.Add(item.Savings())
	}
	out := cartQuote{
		Items:     s.Items,
		ItemCount: s.ItemCount,
		Subtotal:  s.Subtotal,
		Savings:   savings,
		Discount:  s.Discount,
		Total:     s.Total,
	}
	if s.Coupon != nil {
		out.Coupon = &appliedCoupon{
			Code:        s.Coupon.Code,
			Label:       s.Coupon.Discount.Label(),
			Description: s.Coupon.Description,
		}
	}
	return out
}
