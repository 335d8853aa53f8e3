package cart

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/restaurant-cart/internal/model"
)

func soup() model.LineItem {
	return model.LineItem{ID: "soup1", Name: "Tomato Soup", UnitPrice: 1200}
}

func burger(mods []model.Modifier, sides []model.Side) model.LineItem {
	return model.LineItem{ID: "burger", Name: "Burger", UnitPrice: 1500, Modifiers: mods, Sides: sides}
}

func TestState_AddItem_NewLine(t *testing.T) {
	st := State{}.AddItem(soup())

	require.Len(t, st.Items, 1)
	assert.Equal(t, 1, st.Items[0].Quantity)
	assert.NotNil(t, st.Items[0].Modifiers, "Modifiers should be empty slice, not nil")
	assert.NotNil(t, st.Items[0].Sides, "Sides should be empty slice, not nil")
}

func TestState_AddItem_MergesIdenticalLine(t *testing.T) {
	st := State{}.AddItem(soup()).AddItem(soup())

	require.Len(t, st.Items, 1)
	assert.Equal(t, 2, st.Items[0].Quantity)
	assert.Equal(t, 2400, st.Totals().Subtotal)
	assert.Equal(t, 2, st.Totals().ItemCount)
}

func TestState_AddItem_IgnoresCandidateQuantity(t *testing.T) {
	candidate := soup()
	candidate.Quantity = 7

	st := State{}.AddItem(candidate)

	require.Len(t, st.Items, 1)
	assert.Equal(t, 1, st.Items[0].Quantity)
}

func TestState_AddItem_ModifierOrderDoesNotMatter(t *testing.T) {
	cheese := model.Modifier{ID: "cheese", Label: "Extra cheese", PriceDelta: 200}
	bacon := model.Modifier{ID: "bacon", Label: "Bacon", PriceDelta: 300}
	fries := model.Side{ID: "fries", Name: "Fries", Price: 400}
	salad := model.Side{ID: "salad", Name: "Salad", Price: 350}

	st := State{}.
		AddItem(burger([]model.Modifier{cheese, bacon}, []model.Side{fries, salad})).
		AddItem(burger([]model.Modifier{bacon, cheese}, []model.Side{salad, fries}))

	require.Len(t, st.Items, 1)
	assert.Equal(t, 2, st.Items[0].Quantity)
	assert.Equal(t, []model.Modifier{cheese, bacon}, st.Items[0].Modifiers, "stored order is the first added")
}

func TestState_AddItem_DifferentConfigurationsStaySeparate(t *testing.T) {
	cheese := model.Modifier{ID: "cheese", PriceDelta: 200}
	fries := model.Side{ID: "fries", Price: 400}

	st := State{}.
		AddItem(burger(nil, nil)).
		AddItem(burger([]model.Modifier{cheese}, nil)).
		AddItem(burger(nil, []model.Side{fries}))

	require.Len(t, st.Items, 3)
	for _, li := range st.Items {
		assert.Equal(t, 1, li.Quantity)
	}
	assert.Equal(t, 1500+1700+1900, st.Totals().Subtotal)
}

func TestState_AddItem_DifferentDailyProvenanceStaysSeparate(t *testing.T) {
	a := model.LineItem{ID: "x", UnitPrice: 900, DailyKind: model.DailySingleOffer, DailyDate: "2026-10-15", DailyID: "o1"}
	b := a
	b.DailyDate = "2026-10-16"
	c := a
	c.DailyKind = model.DailySetMenu

	st := State{}.AddItem(a).AddItem(b).AddItem(c).AddItem(a)

	require.Len(t, st.Items, 3)
	assert.Equal(t, 2, st.Items[0].Quantity)
}

func TestState_AddItem_DoesNotMutateReceiver(t *testing.T) {
	before := State{}.AddItem(soup())
	after := before.AddItem(soup())

	assert.Equal(t, 1, before.Items[0].Quantity)
	assert.Equal(t, 2, after.Items[0].Quantity)
}

func TestState_AddItemWithSides_ReplacesCandidateSides(t *testing.T) {
	fries := model.Side{ID: "fries", Price: 400}
	salad := model.Side{ID: "salad", Price: 350}

	st := State{}.
		AddItemWithSides(burger(nil, []model.Side{salad}), []model.Side{fries}).
		AddItem(burger(nil, []model.Side{fries}))

	require.Len(t, st.Items, 1)
	assert.Equal(t, []model.Side{fries}, st.Items[0].Sides)
	assert.Equal(t, 2, st.Items[0].Quantity)
}

func TestState_UpdateQuantity(t *testing.T) {
	st := State{}.AddItem(soup()).UpdateQuantity("soup1", 5)

	require.Len(t, st.Items, 1)
	assert.Equal(t, 5, st.Items[0].Quantity)
	assert.Equal(t, 6000, st.Totals().Subtotal)
}

func TestState_UpdateQuantity_NonPositiveRemoves(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
	}{
		{"zero", 0},
		{"negative", -3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := State{}.AddItem(soup()).AddItem(burger(nil, nil)).UpdateQuantity("soup1", tc.quantity)

			require.Len(t, st.Items, 1)
			assert.Equal(t, "burger", st.Items[0].ID)
		})
	}
}

func TestState_UpdateQuantity_ClampsToMax(t *testing.T) {
	item := model.LineItem{ID: "x", Name: "X", UnitPrice: 1000}
	st := State{}.AddItem(item).UpdateQuantity("x", math.MaxInt64/500)

	require.Len(t, st.Items, 1)
	assert.Equal(t, MaxQuantity, st.Items[0].Quantity)
	assert.Equal(t, 1000*MaxQuantity, st.Totals().Subtotal)
	assert.Positive(t, st.Totals().Total)
}

func TestState_AddItem_StopsAtMaxQuantity(t *testing.T) {
	st := State{}.AddItem(soup()).UpdateQuantity("soup1", MaxQuantity)
	st = st.AddItem(soup()).AddItem(soup())

	require.Len(t, st.Items, 1)
	assert.Equal(t, MaxQuantity, st.Items[0].Quantity)
}

func TestState_UpdateQuantity_AffectsAllLinesWithID(t *testing.T) {
	st := State{}.
		AddItem(burger(nil, nil)).
		AddItem(burger([]model.Modifier{{ID: "cheese", PriceDelta: 200}}, nil)).
		UpdateQuantity("burger", 3)

	require.Len(t, st.Items, 2)
	assert.Equal(t, 3, st.Items[0].Quantity)
	assert.Equal(t, 3, st.Items[1].Quantity)
}

func TestState_UpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	st := State{}.AddItem(soup()).UpdateQuantity("missing", 4)

	require.Len(t, st.Items, 1)
	assert.Equal(t, 1, st.Items[0].Quantity)
}

func TestState_RemoveItem(t *testing.T) {
	st := State{}.AddItem(soup()).AddItem(burger(nil, nil)).RemoveItem("soup1")

	require.Len(t, st.Items, 1)
	assert.Equal(t, "burger", st.Items[0].ID)

	st = st.RemoveItem("missing")
	assert.Len(t, st.Items, 1)
}

func TestState_Clear_DropsItemsAndCoupon(t *testing.T) {
	st := State{}.AddItem(soup()).WithCoupon(&model.AppliedCoupon{Code: "SAVE10"}).Clear()

	assert.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
	assert.Nil(t, st.Coupon)
	assert.Equal(t, model.Totals{}, st.Totals())
}

func TestState_CouponSurvivesItemChanges(t *testing.T) {
	applied := &model.AppliedCoupon{Code: "SAVE10", DiscountType: model.DiscountPercentage}
	st := State{}.AddItem(soup()).WithCoupon(applied).RemoveItem("soup1")

	assert.Same(t, applied, st.Coupon)
	assert.Nil(t, st.RemoveCoupon().Coupon)
}

func TestState_Totals_NegativeModifiers(t *testing.T) {
	st := State{}.AddItem(burger([]model.Modifier{{ID: "no-bun", PriceDelta: -100}}, nil))

	assert.Equal(t, 1400, st.Totals().Subtotal)
	assert.Equal(t, 1400, st.Totals().Total)
}

func TestState_Totals_AdditiveOverRandomCarts(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for range 200 {
		st := State{}
		for range r.IntN(8) + 1 {
			mods := make([]model.Modifier, r.IntN(3))
			for i := range mods {
				mods[i] = model.Modifier{ID: string(rune('a' + r.IntN(4))), PriceDelta: r.IntN(400) - 200}
			}
			sides := make([]model.Side, r.IntN(3))
			for i := range sides {
				sides[i] = model.Side{ID: string(rune('p' + r.IntN(4))), Price: r.IntN(500)}
			}
			st = st.AddItem(model.LineItem{
				ID:        string(rune('A' + r.IntN(3))),
				UnitPrice: r.IntN(2000),
				Modifiers: mods,
				Sides:     sides,
			})
		}

		var subtotal, count int
		for _, li := range st.Items {
			unit := li.UnitPrice
			for _, m := range li.Modifiers {
				unit += m.PriceDelta
			}
			for _, s := range li.Sides {
				unit += s.Price
			}
			subtotal += unit * li.Quantity
			count += li.Quantity
		}

		totals := st.Totals()
		assert.Equal(t, subtotal, totals.Subtotal)
		assert.Equal(t, count, totals.ItemCount)
		assert.Equal(t, 0, totals.Discount)
		assert.Equal(t, totals.Subtotal, totals.Total)
	}
}
