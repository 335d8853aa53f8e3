package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/restaurant-cart/internal/cart"
	"github.com/fairyhunter13/restaurant-cart/internal/model"
)

var _ cart.CouponLookup = (*CouponRepository)(nil)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CouponRepository provides read access to the coupon catalog using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom pool interface.
// This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// GetActiveByCode retrieves an active coupon by its normalized code.
// Returns nil, nil if no active coupon has the code.
func (r *CouponRepository) GetActiveByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT code, discount_type, discount_value, valid_until, max_uses, used_count, min_order_amount
		FROM coupons WHERE code = $1 AND is_active = TRUE`

	var (
		coupon       model.Coupon
		discountType string
	)
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&coupon.Code,
		&discountType,
		&coupon.DiscountValue,
		&coupon.ValidUntil,
		&coupon.MaxUses,
		&coupon.UsedCount,
		&coupon.MinOrderAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found or inactive
		}
		return nil, fmt.Errorf("get coupon by code %s: %w", code, err)
	}

	coupon.DiscountType = model.DiscountType(discountType)
	coupon.IsActive = true
	return &coupon, nil
}
