package coupons

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/skillnotes/skillnotes-backend/pkg/enums"
)

var hundred = decimal.NewFromInt(100)

// Discount is a percentage or a flat amount, tagged by Type.
type Discount struct {
	Type  enums.DiscountType `json:"type"`
	Value decimal.Decimal    `json:"value"`
}

// Percentage builds a percentage discount. value is in whole percent.
func Percentage(value int64) Discount {
	return Discount{Type: enums.DiscountTypePercentage, Value: decimal.NewFromInt(value)}
}

// Fixed builds a flat discount in rupees.
func Fixed(value int64) Discount {
	return Discount{Type: enums.DiscountTypeFixed, Value: decimal.NewFromInt(value)}
}

// Amount is the discount for subtotal. A fixed discount never exceeds the
// subtotal, so the result is always within [0, subtotal] for non-negative input.
func (d Discount) Amount(subtotal decimal.Decimal) decimal.Decimal {
	switch d.Type {
	case enums.DiscountTypePercentage:
		return subtotal.Mul(d.Value).Div(hundred)
	case enums.DiscountTypeFixed:
		return decimal.Min(d.Value, subtotal)
	default:
		panic(fmt.Sprintf("coupons: unknown discount type %q", d.Type))
	}
}

// Label renders the discount the way the order summary shows it, e.g. "10%" or "₹50".
func (d Discount) Label() string {
	if d.Type == enums.DiscountTypePercentage {
		return d.Value.String() + d.Type.Symbol()
	}
	return d.Type.Symbol() + d.Value.String()
}

// Coupon is an immutable promotional rule.
type Coupon struct {
	Code         string           `json:"code"`
	Discount     Discount         `json:"discount"`
	MinimumOrder *decimal.Decimal `json:"minimum_order,omitempty"`
	Description  string           `json:"description"`
}

// Eligible reports whether subtotal meets the coupon's minimum order value.
func (c Coupon) Eligible(subtotal decimal.Decimal) bool {
	return c.MinimumOrder == nil || subtotal.GreaterThanOrEqual(*c.MinimumOrder)
}
