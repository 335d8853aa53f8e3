package cart

import (
	"slices"

	"github.com/fairyhunter13/restaurant-cart/internal/model"
)

// MaxQuantity is the largest quantity a single line can hold. Adds and
// quantity updates beyond it are clamped.
const MaxQuantity = 999

// State is the cart aggregate. Every operation returns a new State and
// leaves the receiver untouched, so a State can be shared freely.
type State struct {
	Items  []model.LineItem
	Coupon *model.AppliedCoupon
}

// AddItem merges the candidate into an identical line (quantity + 1, up to
// MaxQuantity) or appends it as a new line with quantity 1.
func (s State) AddItem(candidate model.LineItem) State {
	items := cloneItems(s.Items)
	for i := range items {
		if sameLine(items[i], candidate) {
			items[i].Quantity = min(items[i].Quantity+1, MaxQuantity)
			return State{Items: items, Coupon: s.Coupon}
		}
	}

	line := candidate
	line.Quantity = 1
	line.Modifiers = nonNilModifiers(candidate.Modifiers)
	line.Sides = nonNilSides(candidate.Sides)
	return State{Items: append(items, line), Coupon: s.Coupon}
}

// AddItemWithSides forces the side selection before matching.
func (s State) AddItemWithSides(candidate model.LineItem, sides []model.Side) State {
	candidate.Sides = slices.Clone(sides)
	return s.AddItem(candidate)
}

// UpdateQuantity sets the quantity of the lines with the given id.
// A quantity of zero or less removes them; larger than MaxQuantity is clamped.
func (s State) UpdateQuantity(id string, quantity int) State {
	if quantity <= 0 {
		return s.RemoveItem(id)
	}
	quantity = min(quantity, MaxQuantity)
	items := cloneItems(s.Items)
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = quantity
		}
	}
	return State{Items: items, Coupon: s.Coupon}
}

// RemoveItem drops the lines with the given id.
func (s State) RemoveItem(id string) State {
	items := make([]model.LineItem, 0, len(s.Items))
	for _, li := range s.Items {
		if li.ID != id {
			items = append(items, li)
		}
	}
	return State{Items: items, Coupon: s.Coupon}
}

// Clear empties the cart and drops the coupon in one transition.
func (s State) Clear() State {
	return State{Items: []model.LineItem{}}
}

// WithCoupon attaches the coupon, replacing any previous one.
func (s State) WithCoupon(c *model.AppliedCoupon) State {
	return State{Items: cloneItems(s.Items), Coupon: c}
}

// RemoveCoupon detaches the active coupon.
func (s State) RemoveCoupon() State {
	return State{Items: cloneItems(s.Items)}
}

// Totals computes the derived amounts of the state.
func (s State) Totals() model.Totals {
	var t model.Totals
	for _, li := range s.Items {
		t.Subtotal += li.LinePrice() * li.Quantity
		t.ItemCount += li.Quantity
	}
	t.Discount = Discount(t.Subtotal, s.Coupon)
	t.Total = t.Subtotal - t.Discount
	return t
}

func (s State) clone() State {
	return State{Items: cloneItems(s.Items), Coupon: s.Coupon}
}

func cloneItems(items []model.LineItem) []model.LineItem {
	out := make([]model.LineItem, len(items))
	copy(out, items)
	return out
}

func nonNilModifiers(in []model.Modifier) []model.Modifier {
	if in == nil {
		return []model.Modifier{}
	}
	return slices.Clone(in)
}

func nonNilSides(in []model.Side) []model.Side {
	if in == nil {
		return []model.Side{}
	}
	return slices.Clone(in)
}
