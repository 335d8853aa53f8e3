package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType is the kind of discount a coupon grants.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon represents a coupon row in the catalog.
type Coupon struct {
	Code           string
	DiscountType   DiscountType
	DiscountValue  decimal.Decimal
	ValidUntil     *time.Time // nil means no expiry
	MaxUses        *int       // nil means unlimited
	UsedCount      int
	MinOrderAmount int
	IsActive       bool
}

// Applied returns the cart-side view of the coupon.
func (c *Coupon) Applied() *AppliedCoupon {
	return &AppliedCoupon{
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
	}
}

// AppliedCoupon is the coupon currently attached to a cart.
// The discount amount is never stored; it is derived from the subtotal.
type AppliedCoupon struct {
	Code          string          `json:"code"`
	DiscountType  DiscountType    `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

// ApplyCouponRequest is the DTO for applying a coupon to a cart
type ApplyCouponRequest struct {
	Code string `json:"code" validate:"required,notblank,max=64"`
}

// ApplyCouponResponse is returned when a coupon was accepted
type ApplyCouponResponse struct {
	Message string   `json:"message"`
	Cart    CartView `json:"cart"`
}
