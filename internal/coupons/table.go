package coupons

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Table maps normalized codes to coupons. It is read-only once built.
type Table map[string]Coupon

// Builtin returns the storefront's coupon table.
func Builtin() Table {
	saveMinimum := decimal.NewFromInt(500)
	return NewTable(
		Coupon{Code: "WELCOME10", Discount: Percentage(10), Description: "10% off on your first order"},
		Coupon{Code: "SAVE20", Discount: Percentage(20), MinimumOrder: &saveMinimum, Description: "20% off on orders above ₹500"},
		Coupon{Code: "FLAT50", Discount: Fixed(50), Description: "₹50 off on any order"},
		Coupon{Code: "STUDENT15", Discount: Percentage(15), Description: "15% off for students"},
	)
}

// NewTable indexes coupons by normalized code. Later duplicates win.
func NewTable(list ...Coupon) Table {
	table := make(Table, len(list))
	for _, c := range list {
		c.Code = Normalize(c.Code)
		table[c.Code] = c
	}
	return table
}

// Normalize trims and uppercases a user-entered code.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Lookup finds a coupon by code, ignoring case and surrounding whitespace.
func (t Table) Lookup(raw string) (Coupon, bool) {
	c, ok := t[Normalize(raw)]
	return c, ok
}

// Codes lists the known codes in sorted order.
func (t Table) Codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Validate checks raw against the table for the given subtotal. Rejections are
// returned as *RejectionError, checked in order: empty code, unknown code,
// minimum order.
func (t Table) Validate(raw string, subtotal decimal.Decimal) (Coupon, error) {
	code := Normalize(raw)
	if code == "" {
		return Coupon{}, &RejectionError{Reason: ErrEmptyCouponCode}
	}
	c, ok := t[code]
	if !ok {
		return Coupon{}, &RejectionError{Reason: ErrInvalidCouponCode, Code: code}
	}
	if !c.Eligible(subtotal) {
		minimum := *c.MinimumOrder
		return Coupon{}, &RejectionError{Reason: ErrMinimumOrderNotMet, Code: code, MinimumOrder: &minimum}
	}
	return c, nil
}
