package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrCouponInvalid is returned when a coupon code does not exist or is inactive
	ErrCouponInvalid = errors.New("invalid coupon code")

	// ErrCouponExpired is returned when a coupon is past its validity date
	ErrCouponExpired = errors.New("coupon has expired")

	// ErrCouponExhausted is returned when a coupon reached its usage cap
	ErrCouponExhausted = errors.New("coupon usage limit reached")

	// ErrCouponLookupFailed is returned when the coupon catalog could not be reached
	ErrCouponLookupFailed = errors.New("could not verify coupon")
)

// MinimumOrderError is returned when the cart subtotal is below the
// coupon's minimum order amount.
type MinimumOrderError struct {
	MinOrderAmount int
}

func (e *MinimumOrderError) Error() string {
	return fmt.Sprintf("minimum order amount of %d not met", e.MinOrderAmount)
}
