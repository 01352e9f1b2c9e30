package coupons

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCouponCode    = errors.New("empty coupon code")
	ErrInvalidCouponCode  = errors.New("invalid coupon code")
	ErrMinimumOrderNotMet = errors.New("minimum order not met")
)

// RejectionError is returned when a coupon cannot be applied. It is an expected
// outcome of user input, not a fault. Match it with errors.Is against the
// sentinel errors above.
type RejectionError struct {
	Reason       error
	Code         string
	MinimumOrder *decimal.Decimal
}

func (e *RejectionError) Error() string {
	return e.Message()
}

// Message is the user-facing text.
func (e *RejectionError) Message() string {
	switch {
	case errors.Is(e.Reason, ErrEmptyCouponCode):
		return "Please enter a coupon code"
	case errors.Is(e.Reason, ErrMinimumOrderNotMet) && e.MinimumOrder != nil:
		return fmt.Sprintf("Minimum order value of ₹%s required for this coupon", e.MinimumOrder.String())
	default:
		return "Invalid coupon code"
	}
}

// ReasonKey is a stable machine-readable name for the rejection.
func (e *RejectionError) ReasonKey() string {
	switch {
	case errors.Is(e.Reason, ErrEmptyCouponCode):
		return "empty_code"
	case errors.Is(e.Reason, ErrMinimumOrderNotMet):
		return "minimum_order_not_met"
	default:
		return "invalid_code"
	}
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}

// AsRejection extracts a RejectionError from err.
func AsRejection(err error) (*RejectionError, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}
