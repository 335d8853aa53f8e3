package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/restaurant-cart/internal/model"
)

func intPtr(i int) *int {
	return &i
}

// TestNotblankValidator tests the custom notblank validation
func TestNotblankValidator(t *testing.T) {
	v := New()

	type TestStruct struct {
		Code string `validate:"notblank"`
	}

	testCases := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"valid_string", "SAVE10", false},
		{"valid_with_spaces", "  SAVE10  ", false},
		{"whitespace_only_spaces", "   ", true},
		{"whitespace_only_tabs", "\t\t", true},
		{"whitespace_mixed", " \t\n ", true},
		{"empty_string", "", true},
		{"unicode_content", "Gulaschsuppe", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(TestStruct{Code: tc.input})

			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestNotblankOnNonStringField tests that notblank handles non-string fields gracefully
func TestNotblankOnNonStringField(t *testing.T) {
	v := New()

	type TestStructInt struct {
		Value int `validate:"notblank"`
	}

	assert.NoError(t, v.Struct(TestStructInt{Value: 0}), "notblank should pass for non-string types")
}

func TestNew_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Struct(model.AddItemRequest{Name: "Burger", UnitPrice: intPtr(100)})

	var ve validator.ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "id", ve[0].Field())
	assert.Equal(t, "AddItemRequest.id", ve[0].Namespace())
}

func TestAddItemRequest_Validation(t *testing.T) {
	v := New()

	testCases := []struct {
		name        string
		req         model.AddItemRequest
		expectError bool
	}{
		{"valid", model.AddItemRequest{ID: "burger", Name: "Burger", UnitPrice: intPtr(1500)}, false},
		{"free item", model.AddItemRequest{ID: "water", Name: "Water", UnitPrice: intPtr(0)}, false},
		{"missing price", model.AddItemRequest{ID: "burger", Name: "Burger"}, true},
		{"negative price", model.AddItemRequest{ID: "burger", Name: "Burger", UnitPrice: intPtr(-1)}, true},
		{"blank id", model.AddItemRequest{ID: "  ", Name: "Burger", UnitPrice: intPtr(1)}, true},
		{"bad image url", model.AddItemRequest{ID: "b", Name: "B", UnitPrice: intPtr(1), ImageURL: "not a url"}, true},
		{"negative modifier allowed", model.AddItemRequest{ID: "b", Name: "B", UnitPrice: intPtr(1), Modifiers: []model.Modifier{{ID: "no-bun", PriceDelta: -100}}}, false},
		{"modifier without id", model.AddItemRequest{ID: "b", Name: "B", UnitPrice: intPtr(1), Modifiers: []model.Modifier{{Label: "x"}}}, true},
		{"negative side price", model.AddItemRequest{ID: "b", Name: "B", UnitPrice: intPtr(1), Sides: []model.Side{{ID: "fries", Price: -5}}}, true},
		{"price at ceiling", model.AddItemRequest{ID: "b", Name: "B", UnitPrice: intPtr(10000000)}, false},
		{"price above ceiling", model.AddItemRequest{ID: "b", Name: "B", UnitPrice: intPtr(10000001)}, true},
		{"huge modifier delta", model.AddItemRequest{ID: "b", Name: "B", UnitPrice: intPtr(1), Modifiers: []model.Modifier{{ID: "gold", PriceDelta: 1 << 40}}}, true},
		{"huge negative modifier delta", model.AddItemRequest{ID: "b", Name: "B", UnitPrice: intPtr(1), Modifiers: []model.Modifier{{ID: "gold", PriceDelta: -(1 << 40)}}}, true},
		{"huge side price", model.AddItemRequest{ID: "b", Name: "B", UnitPrice: intPtr(1), Sides: []model.Side{{ID: "fries", Price: 1 << 40}}}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.req)

			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateQuantityRequest_Validation(t *testing.T) {
	v := New()

	testCases := []struct {
		name        string
		quantity    *int
		expectError bool
	}{
		{"missing", nil, true},
		{"removal", intPtr(0), false},
		{"negative removal", intPtr(-2), false},
		{"at ceiling", intPtr(999), false},
		{"above ceiling", intPtr(1000), true},
		{"overflowing", intPtr(1 << 53), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(model.UpdateQuantityRequest{Quantity: tc.quantity})

			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDailyOffering_Validation(t *testing.T) {
	v := New()
	soup := model.MenuComponent{ID: "s1", Name: "Broth"}
	main := model.MenuComponent{ID: "k1", Name: "Schnitzel"}

	assert.NoError(t, v.Struct(model.DailyOffer{ID: "o1", Date: "2026-10-15", Name: "Goulash", Price: intPtr(890)}))
	assert.Error(t, v.Struct(model.DailyOffer{ID: "o1", Date: "15.10.2026", Name: "Goulash", Price: intPtr(890)}), "date must be YYYY-MM-DD")

	assert.NoError(t, v.Struct(model.DailyMenu{ID: "m1", Date: "2026-10-15", Price: intPtr(1290), Soup: soup, Main: main}))
	assert.Error(t, v.Struct(model.DailyMenu{ID: "m1", Date: "2026-10-15", Price: intPtr(1290), Soup: soup}), "nested main must be validated")

	assert.Error(t, v.Struct(model.CompositeMenu{ID: "c1", Date: "2026-10-15", Soup: soup, Main: main}), "price is required")
	assert.Error(t, v.Struct(model.CompositeMenu{ID: "c1", Date: "2026-10-15", Price: intPtr(1 << 40), Soup: soup, Main: main}), "price has a ceiling")
}
