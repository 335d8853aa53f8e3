package cart

import (
	"cmp"
	"slices"

	"github.com/fairyhunter13/restaurant-cart/internal/model"
)

// sameLine reports whether two line items describe the same purchasable
// configuration. Modifiers and sides are compared irrespective of order:
// the same selections picked in a different order merge into one line.
// Earlier carts kept such selections as separate lines; this is a
// deliberate behavior change.
func sameLine(a, b model.LineItem) bool {
	if a.ID != b.ID ||
		a.DailyKind != b.DailyKind ||
		a.DailyDate != b.DailyDate ||
		a.DailyID != b.DailyID ||
		a.CompositeMenuID != b.CompositeMenuID {
		return false
	}
	return slices.Equal(sortedModifiers(a.Modifiers), sortedModifiers(b.Modifiers)) &&
		slices.Equal(sortedSides(a.Sides), sortedSides(b.Sides))
}

func sortedModifiers(in []model.Modifier) []model.Modifier {
	out := slices.Clone(in)
	slices.SortFunc(out, func(x, y model.Modifier) int {
		return cmp.Or(
			cmp.Compare(x.ID, y.ID),
			cmp.Compare(x.Label, y.Label),
			cmp.Compare(x.PriceDelta, y.PriceDelta),
		)
	})
	return out
}

func sortedSides(in []model.Side) []model.Side {
	out := slices.Clone(in)
	slices.SortFunc(out, func(x, y model.Side) int {
		return cmp.Or(
			cmp.Compare(x.ID, y.ID),
			cmp.Compare(x.Name, y.Name),
			cmp.Compare(x.Price, y.Price),
		)
	})
	return out
}
