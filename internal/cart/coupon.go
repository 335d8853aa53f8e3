package cart

import (
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/restaurant-cart/internal/model"
)

// NormalizeCode trims and upper-cases a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CheckEligibility gates a looked-up coupon against the cart subtotal.
// A nil or inactive coupon is reported as ErrCouponInvalid.
func CheckEligibility(c *model.Coupon, subtotal int, now time.Time) error {
	if c == nil || !c.IsActive {
		return ErrCouponInvalid
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return ErrCouponExpired
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return ErrCouponExhausted
	}
	if subtotal < c.MinOrderAmount {
		return &MinimumOrderError{MinOrderAmount: c.MinOrderAmount}
	}
	return nil
}

// Confirmation describes an accepted coupon to the customer.
func Confirmation(c *model.AppliedCoupon) string {
	switch c.DiscountType {
	case model.DiscountPercentage:
		return fmt.Sprintf("coupon %s applied: %s%% off", c.Code, c.DiscountValue.String())
	default:
		return fmt.Sprintf("coupon %s applied: %s off", c.Code, c.DiscountValue.String())
	}
}
