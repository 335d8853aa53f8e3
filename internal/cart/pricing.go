package cart

import (
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/restaurant-cart/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Discount returns the amount the coupon takes off the subtotal.
// Percentage discounts round half away from zero; fixed discounts are
// capped at the subtotal. The result is never negative.
func Discount(subtotal int, c *model.AppliedCoupon) int {
	if c == nil || subtotal <= 0 {
		return 0
	}

	var discount int64
	switch c.DiscountType {
	case model.DiscountPercentage:
		discount = decimal.NewFromInt(int64(subtotal)).
			Mul(c.DiscountValue).
			Div(hundred).
			Round(0).
			IntPart()
	case model.DiscountFixed:
		discount = c.DiscountValue.Round(0).IntPart()
	default:
		return 0
	}

	if discount < 0 {
		return 0
	}
	if discount > int64(subtotal) {
		return subtotal
	}
	return int(discount)
}
