package cartdto

// ApplyCouponRequest carries a raw user-entered code. Blank codes are rejected
// by the coupon table, not by request validation.
type ApplyCouponRequest struct {
	Code string `json:"code" validate:"max=64"`
}
