package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/restaurant-cart/internal/model"
)

// CouponLookup finds active coupons in the catalog.
// Returns nil, nil when no active coupon has the code.
type CouponLookup interface {
	GetActiveByCode(ctx context.Context, code string) (*model.Coupon, error)
}

// SideRuleLookup finds side-selection rules of catalog items.
// Returns nil, nil when the item has no rules.
type SideRuleLookup interface {
	GetByMenuItem(ctx context.Context, menuItemID string) (*model.SideRule, error)
}

// SnapshotStore is durable key-value storage for serialized item lists.
type SnapshotStore interface {
	Write(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, bool, error)
}

// Store owns one cart for the lifetime of a session. All methods are safe
// for concurrent use; mutations are applied one at a time and each one is
// followed by a snapshot write of the item list.
type Store struct {
	mu        sync.Mutex
	key       string
	state     State
	restored  bool
	snapshots SnapshotStore
	coupons   CouponLookup
	sideRules SideRuleLookup
	now       func() time.Time
}

// NewStore creates an empty store persisting under key.
func NewStore(key string, snapshots SnapshotStore, coupons CouponLookup, sideRules SideRuleLookup) *Store {
	return NewStoreWithClock(key, snapshots, coupons, sideRules, time.Now)
}

// NewStoreWithClock creates a store with a custom clock.
// Primarily used for testing coupon expiry.
func NewStoreWithClock(key string, snapshots SnapshotStore, coupons CouponLookup, sideRules SideRuleLookup, now func() time.Time) *Store {
	return &Store{
		key:       key,
		state:     State{Items: []model.LineItem{}},
		snapshots: snapshots,
		coupons:   coupons,
		sideRules: sideRules,
		now:       now,
	}
}

// Key returns the snapshot key of the store.
func (s *Store) Key() string {
	return s.key
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Restored reports whether Load has completed, successfully or not.
func (s *Store) Restored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restored
}

// Load replaces the item list with the persisted snapshot.
// A missing snapshot leaves the cart empty and returns nil. A failed read or
// an undecodable snapshot also leaves the cart empty and returns the error.
// Restored reports true afterwards in every case.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.restored = true }()

	data, found, err := s.snapshots.Read(ctx, s.key)
	if err != nil {
		return fmt.Errorf("read cart snapshot %s: %w", s.key, err)
	}
	if !found {
		return nil
	}

	var items []model.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decode cart snapshot %s: %w", s.key, err)
	}

	restored := make([]model.LineItem, 0, len(items))
	for _, li := range items {
		if li.ID == "" || li.Quantity <= 0 {
			continue
		}
		li.Quantity = min(li.Quantity, MaxQuantity)
		li.Modifiers = nonNilModifiers(li.Modifiers)
		li.Sides = nonNilSides(li.Sides)
		restored = append(restored, li)
	}
	s.state = State{Items: restored, Coupon: s.state.Coupon}
	return nil
}

// Save writes the item list to the snapshot store.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	data, err := json.Marshal(s.state.Items)
	if err != nil {
		return fmt.Errorf("encode cart snapshot %s: %w", s.key, err)
	}
	if err := s.snapshots.Write(ctx, s.key, data); err != nil {
		return fmt.Errorf("write cart snapshot %s: %w", s.key, err)
	}
	return nil
}

// apply runs a reducer step and persists the result. Persistence failures
// are logged and never surface to the caller.
func (s *Store) apply(ctx context.Context, step func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = step(s.state)
	s.persistLocked(ctx)
	return s.state.clone()
}

// persistLocked saves the item list, logging failures.
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.saveLocked(ctx); err != nil {
		log.Error().
			Err(err).
			Str("cart_key", s.key).
			Int("items", len(s.state.Items)).
			Msg("failed to persist cart")
	}
}

// AddItem adds one unit of the candidate configuration.
func (s *Store) AddItem(ctx context.Context, candidate model.LineItem) State {
	return s.apply(ctx, func(st State) State { return st.AddItem(candidate) })
}

// AddItemWithSides adds one unit of the candidate with the given sides.
func (s *Store) AddItemWithSides(ctx context.Context, candidate model.LineItem, sides []model.Side) State {
	return s.apply(ctx, func(st State) State { return st.AddItemWithSides(candidate, sides) })
}

// AddDailySingleOffer adds a single daily offer.
func (s *Store) AddDailySingleOffer(ctx context.Context, o model.DailyOffer) State {
	return s.apply(ctx, func(st State) State { return st.AddDailySingleOffer(o) })
}

// AddDailySetMenu adds a daily set menu.
func (s *Store) AddDailySetMenu(ctx context.Context, m model.DailyMenu) State {
	return s.apply(ctx, func(st State) State { return st.AddDailySetMenu(m) })
}

// AddCompositeMenu adds a composite menu.
func (s *Store) AddCompositeMenu(ctx context.Context, m model.CompositeMenu) State {
	return s.apply(ctx, func(st State) State { return st.AddCompositeMenu(m) })
}

// UpdateQuantity sets the quantity of an item; non-positive removes it.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) State {
	return s.apply(ctx, func(st State) State { return st.UpdateQuantity(id, quantity) })
}

// RemoveItem removes an item.
func (s *Store) RemoveItem(ctx context.Context, id string) State {
	return s.apply(ctx, func(st State) State { return st.RemoveItem(id) })
}

// Clear empties the cart and drops the coupon.
func (s *Store) Clear(ctx context.Context) State {
	return s.apply(ctx, func(st State) State { return st.Clear() })
}

// RemoveCoupon drops the active coupon.
func (s *Store) RemoveCoupon(ctx context.Context) State {
	return s.apply(ctx, func(st State) State { return st.RemoveCoupon() })
}

// ApplyCoupon looks up the code and attaches the coupon when the cart is
// eligible. It returns a confirmation message on success. Failures leave
// the state and the snapshot untouched and are one of ErrCouponInvalid,
// ErrCouponExpired, ErrCouponExhausted, *MinimumOrderError or
// ErrCouponLookupFailed.
//
// The lookup runs without holding the store lock. Eligibility is checked
// once the lookup resolves, against the subtotal at that moment.
func (s *Store) ApplyCoupon(ctx context.Context, code string) (string, error) {
	code = NormalizeCode(code)
	if code == "" {
		return "", ErrCouponInvalid
	}

	coupon, err := s.coupons.GetActiveByCode(ctx, code)
	if err != nil {
		log.Error().
			Err(err).
			Str("cart_key", s.key).
			Str("coupon_code", code).
			Msg("coupon lookup failed")
		return "", fmt.Errorf("%w: %w", ErrCouponLookupFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := CheckEligibility(coupon, s.state.Totals().Subtotal, s.now()); err != nil {
		return "", err
	}
	applied := coupon.Applied()
	s.state = s.state.WithCoupon(applied)
	s.persistLocked(ctx)
	return Confirmation(applied), nil
}

// ValidateSides checks that every ordinary item without sides satisfies
// its side-selection rules: a required rule fails when the line has fewer
// sides than MinSelect. A required rule with MinSelect 0 is satisfied.
// Items whose rules cannot be fetched are skipped.
func (s *Store) ValidateSides(ctx context.Context) model.SideValidation {
	items := s.State().Items

	errs := []string{}
	seen := make(map[string]struct{}, len(items))
	for _, li := range items {
		if li.IsDaily() || len(li.Sides) > 0 {
			continue
		}
		if _, ok := seen[li.ID]; ok {
			continue
		}
		seen[li.ID] = struct{}{}

		rule, err := s.sideRules.GetByMenuItem(ctx, li.ID)
		if err != nil {
			log.Warn().
				Err(err).
				Str("cart_key", s.key).
				Str("item_id", li.ID).
				Msg("skipping side validation, rule lookup failed")
			continue
		}
		if rule == nil || !rule.IsRequired {
			continue
		}

		if len(li.Sides) < rule.MinSelect {
			errs = append(errs, fmt.Sprintf("%s requires at least %d side(s)", li.Name, rule.MinSelect))
		}
	}

	return model.SideValidation{Valid: len(errs) == 0, Errors: errs}
}
