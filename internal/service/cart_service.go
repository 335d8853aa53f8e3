package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/restaurant-cart/internal/cart"
	"github.com/fairyhunter13/restaurant-cart/internal/model"
)

// session is a cart store bound to its canonical session id.
type session struct {
	id    string
	store *cart.Store

	load       sync.Once
	active     atomic.Int32
	lastAccess atomic.Int64
}

func (s *session) view(st cart.State) model.CartView {
	return model.CartView{
		SessionID: s.id,
		Items:     st.Items,
		Coupon:    st.Coupon,
		Restored:  s.store.Restored(),
		Totals:    st.Totals(),
	}
}

func (s *session) touch() {
	s.lastAccess.Store(time.Now().UnixNano())
}

// release marks the end of an operation on the session.
func (s *session) release() {
	s.touch()
	s.active.Add(-1)
}

// CartService owns one cart store per client session. Sessions live in
// memory until EvictIdle drops them; their snapshots outlive them.
type CartService struct {
	mu        sync.RWMutex
	sessions  map[string]*session
	snapshots cart.SnapshotStore
	coupons   cart.CouponLookup
	sideRules cart.SideRuleLookup
	keyPrefix string
}

// NewCartService creates a new CartService. Snapshots of each session are
// stored under keyPrefix followed by the session id.
func NewCartService(snapshots cart.SnapshotStore, coupons cart.CouponLookup, sideRules cart.SideRuleLookup, keyPrefix string) *CartService {
	return &CartService{
		sessions:  make(map[string]*session),
		snapshots: snapshots,
		coupons:   coupons,
		sideRules: sideRules,
		keyPrefix: keyPrefix,
	}
}

// Open starts a new cart session and returns its empty cart.
func (s *CartService) Open(ctx context.Context) (model.CartView, error) {
	sess, err := s.session(ctx, uuid.NewString())
	if err != nil {
		return model.CartView{}, err
	}
	defer sess.release()
	log.Info().Str("session_id", sess.id).Msg("cart session opened")
	return sess.view(sess.store.State()), nil
}

// session returns the session, restoring its store from the snapshot on
// first use. The caller must call release when done. Returns
// ErrInvalidSession if sessionID is not a UUID.
func (s *CartService) session(ctx context.Context, sessionID string) (*session, error) {
	parsed, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, ErrInvalidSession
	}
	id := parsed.String()

	s.mu.RLock()
	sess, ok := s.sessions[id]
	if ok {
		sess.active.Add(1)
	}
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		sess, ok = s.sessions[id]
		if !ok {
			sess = &session{
				id:    id,
				store: cart.NewStore(s.keyPrefix+id, s.snapshots, s.coupons, s.sideRules),
			}
			s.sessions[id] = sess
		}
		sess.active.Add(1)
		s.mu.Unlock()
	}
	sess.touch()

	// The snapshot read happens outside the map lock; concurrent first
	// callers for the same id wait on the same load.
	sess.load.Do(func() {
		if err := sess.store.Load(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Str("session_id", id).Msg("cart restore failed, starting empty")
		}
	})
	return sess, nil
}

// EvictIdle drops sessions not accessed since cutoff and with no operation
// in flight. Their snapshots are kept, so a later request restores them.
// It returns the number of sessions dropped.
func (s *CartService) EvictIdle(cutoff time.Time) int {
	limit := cutoff.UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.active.Load() > 0 || sess.lastAccess.Load() >= limit {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	if evicted > 0 {
		log.Debug().Int("evicted", evicted).Int("remaining", len(s.sessions)).Msg("idle cart sessions evicted")
	}
	return evicted
}

// RunEviction evicts sessions idle for longer than idle until ctx is
// cancelled. A non-positive idle disables eviction.
func (s *CartService) RunEviction(ctx context.Context, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(max(idle/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.EvictIdle(now.Add(-idle))
		}
	}
}

// Sessions returns the number of sessions held in memory.
func (s *CartService) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// withSession runs op against the session's store and returns the resulting cart.
func (s *CartService) withSession(ctx context.Context, sessionID string, op func(*cart.Store) cart.State) (model.CartView, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return model.CartView{}, err
	}
	defer sess.release()
	return sess.view(op(sess.store)), nil
}

// View returns the current cart of the session.
func (s *CartService) View(ctx context.Context, sessionID string) (model.CartView, error) {
	return s.withSession(ctx, sessionID, func(st *cart.Store) cart.State { return st.State() })
}

// AddItem adds one unit of a menu item.
func (s *CartService) AddItem(ctx context.Context, sessionID string, item model.LineItem) (model.CartView, error) {
	return s.withSession(ctx, sessionID, func(st *cart.Store) cart.State { return st.AddItem(ctx, item) })
}

// AddItemWithSides adds one unit of a menu item with the given sides.
func (s *CartService) AddItemWithSides(ctx context.Context, sessionID string, item model.LineItem, sides []model.Side) (model.CartView, error) {
	return s.withSession(ctx, sessionID, func(st *cart.Store) cart.State { return st.AddItemWithSides(ctx, item, sides) })
}

// AddDailyOffer adds a single daily offer.
func (s *CartService) AddDailyOffer(ctx context.Context, sessionID string, offer model.DailyOffer) (model.CartView, error) {
	return s.withSession(ctx, sessionID, func(st *cart.Store) cart.State { return st.AddDailySingleOffer(ctx, offer) })
}

// AddDailyMenu adds a daily set menu.
func (s *CartService) AddDailyMenu(ctx context.Context, sessionID string, menu model.DailyMenu) (model.CartView, error) {
	return s.withSession(ctx, sessionID, func(st *cart.Store) cart.State { return st.AddDailySetMenu(ctx, menu) })
}

// AddCompositeMenu adds a composite soup and main menu.
func (s *CartService) AddCompositeMenu(ctx context.Context, sessionID string, menu model.CompositeMenu) (model.CartView, error) {
	return s.withSession(ctx, sessionID, func(st *cart.Store) cart.State { return st.AddCompositeMenu(ctx, menu) })
}

// UpdateQuantity sets the quantity of an item. Zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (model.CartView, error) {
	return s.withSession(ctx, sessionID, func(st *cart.Store) cart.State { return st.UpdateQuantity(ctx, itemID, quantity) })
}

// RemoveItem removes an item.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID string) (model.CartView, error) {
	return s.withSession(ctx, sessionID, func(st *cart.Store) cart.State { return st.RemoveItem(ctx, itemID) })
}

// Clear empties the cart and drops its coupon.
func (s *CartService) Clear(ctx context.Context, sessionID string) (model.CartView, error) {
	return s.withSession(ctx, sessionID, func(st *cart.Store) cart.State { return st.Clear(ctx) })
}

// RemoveCoupon drops the active coupon.
func (s *CartService) RemoveCoupon(ctx context.Context, sessionID string) (model.CartView, error) {
	return s.withSession(ctx, sessionID, func(st *cart.Store) cart.State { return st.RemoveCoupon(ctx) })
}

// ApplyCoupon applies a coupon code to the cart.
// Returns the confirmation message and the updated cart on success, or one
// of the cart package coupon errors.
func (s *CartService) ApplyCoupon(ctx context.Context, sessionID, code string) (string, model.CartView, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return "", model.CartView{}, err
	}
	defer sess.release()

	msg, err := sess.store.ApplyCoupon(ctx, code)
	if err != nil {
		return "", model.CartView{}, err
	}

	log.Info().
		Str("session_id", sess.id).
		Str("coupon_code", cart.NormalizeCode(code)).
		Msg("coupon applied")
	return msg, sess.view(sess.store.State()), nil
}

// ValidateSides checks side-selection rules of the cart's items.
func (s *CartService) ValidateSides(ctx context.Context, sessionID string) (model.SideValidation, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return model.SideValidation{}, err
	}
	defer sess.release()
	return sess.store.ValidateSides(ctx), nil
}
