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

var _ cart.SideRuleLookup = (*SideRuleRepository)(nil)

// SideRuleRepository provides read access to side-selection rules using pgx.
type SideRuleRepository struct {
	pool PoolInterface
}

// NewSideRuleRepository creates a new SideRuleRepository with the given pool.
func NewSideRuleRepository(pool *pgxpool.Pool) *SideRuleRepository {
	return &SideRuleRepository{pool: pool}
}

// NewSideRuleRepositoryWithPool creates a new SideRuleRepository with a custom pool interface.
// This is primarily used for testing.
func NewSideRuleRepositoryWithPool(pool PoolInterface) *SideRuleRepository {
	return &SideRuleRepository{pool: pool}
}

// GetByMenuItem retrieves the side-selection rule of a menu item.
// Returns nil, nil if the item has no rule.
func (r *SideRuleRepository) GetByMenuItem(ctx context.Context, menuItemID string) (*model.SideRule, error) {
	query := `SELECT menu_item_id, is_required, min_select, max_select
		FROM menu_item_side_rules WHERE menu_item_id = $1`

	var rule model.SideRule
	err := r.pool.QueryRow(ctx, query, menuItemID).Scan(
		&rule.MenuItemID,
		&rule.IsRequired,
		&rule.MinSelect,
		&rule.MaxSelect,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get side rule for %s: %w", menuItemID, err)
	}
	return &rule, nil
}
