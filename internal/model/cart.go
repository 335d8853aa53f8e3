package model

// DailyKind marks time-bound catalog entries. The zero value is an
// ordinary menu item.
type DailyKind string

const (
	DailyNone          DailyKind = ""
	DailySingleOffer   DailyKind = "single_offer"
	DailySetMenu       DailyKind = "daily_menu"
	DailyCompositeMenu DailyKind = "composite_menu"
)

// Modifier is an additive price adjustment attached to a line item.
type Modifier struct {
	ID         string `json:"id" validate:"required,notblank,max=255"`
	Label      string `json:"label" validate:"max=255"`
	PriceDelta int    `json:"price_delta" validate:"gte=-10000000,lte=10000000"`
}

// Side is an additional priced component bundled with a line item.
type Side struct {
	ID    string `json:"id" validate:"required,notblank,max=255"`
	Name  string `json:"name" validate:"max=255"`
	Price int    `json:"price" validate:"gte=0,lte=10000000"`
}

// Components references the soup and main of a daily menu.
type Components struct {
	SoupID   string `json:"soup_id,omitempty"`
	SoupName string `json:"soup_name,omitempty"`
	MainID   string `json:"main_id,omitempty"`
	MainName string `json:"main_name,omitempty"`
}

// LineItem is one distinct purchasable configuration in a cart.
type LineItem struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	UnitPrice       int         `json:"unit_price"`
	Quantity        int         `json:"quantity"`
	Modifiers       []Modifier  `json:"modifiers"`
	Sides           []Side      `json:"sides"`
	ImageURL        string      `json:"image_url,omitempty"`
	DailyKind       DailyKind   `json:"daily_kind,omitempty"`
	DailyDate       string      `json:"daily_date,omitempty"`
	DailyID         string      `json:"daily_id,omitempty"`
	CompositeMenuID string      `json:"composite_menu_id,omitempty"`
	Components      *Components `json:"components,omitempty"`
}

// IsDaily reports whether the line came from a daily offering.
func (li LineItem) IsDaily() bool {
	return li.DailyKind != DailyNone
}

// LinePrice returns the price of one unit including modifiers and sides.
func (li LineItem) LinePrice() int {
	price := li.UnitPrice
	for _, m := range li.Modifiers {
		price += m.PriceDelta
	}
	for _, s := range li.Sides {
		price += s.Price
	}
	return price
}

// Totals holds the derived amounts of a cart.
type Totals struct {
	Subtotal  int `json:"subtotal"`
	ItemCount int `json:"item_count"`
	Discount  int `json:"discount"`
	Total     int `json:"total"`
}

// CartView is the API response DTO for a cart.
type CartView struct {
	SessionID string         `json:"session_id"`
	Items     []LineItem     `json:"items"`
	Coupon    *AppliedCoupon `json:"coupon"`
	Restored  bool           `json:"restored"`
	Totals
}

// AddItemRequest is the DTO for adding a menu item to a cart
type AddItemRequest struct {
	ID        string     `json:"id" validate:"required,notblank,max=255"`
	Name      string     `json:"name" validate:"required,notblank,max=255"`
	UnitPrice *int       `json:"unit_price" validate:"required,gte=0,lte=10000000"`
	ImageURL  string     `json:"image_url" validate:"omitempty,url"`
	Modifiers []Modifier `json:"modifiers" validate:"dive"`
	Sides     []Side     `json:"sides" validate:"dive"`
}

// LineItem converts the request into a cart line candidate.
func (r *AddItemRequest) LineItem() LineItem {
	li := LineItem{
		ID:        r.ID,
		Name:      r.Name,
		ImageURL:  r.ImageURL,
		Modifiers: r.Modifiers,
		Sides:     r.Sides,
	}
	if r.UnitPrice != nil {
		li.UnitPrice = *r.UnitPrice
	}
	return li
}

// AddItemWithSidesRequest is the DTO for adding an item whose sides were
// chosen in a separate step
type AddItemWithSidesRequest struct {
	Item  AddItemRequest `json:"item"`
	Sides []Side         `json:"sides" validate:"required,dive"`
}

// UpdateQuantityRequest is the DTO for changing a line's quantity.
// Zero or negative quantities remove the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=999"`
}

// SideValidation is the result of checking side-selection rules.
type SideValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// SideRule describes side-selection rules of a catalog item.
type SideRule struct {
	MenuItemID string
	IsRequired bool
	MinSelect  int
	MaxSelect  int
}
