package cart

import (
	"strings"

	"github.com/fairyhunter13/restaurant-cart/internal/model"
)

// Daily offerings arrive from the catalog as nested records. The cart only
// keeps a flattened projection whose id encodes kind, date and the ids of
// the sub-items, so different compositions never share a line.

func dailyLineID(kind model.DailyKind, date string, ids ...string) string {
	parts := append([]string{string(kind), date}, ids...)
	return strings.Join(parts, ":")
}

// FromDailyOffer projects a single daily offer into a line candidate.
func FromDailyOffer(o model.DailyOffer) model.LineItem {
	return model.LineItem{
		ID:        dailyLineID(model.DailySingleOffer, o.Date, o.ID),
		Name:      o.Name,
		UnitPrice: derefPrice(o.Price),
		ImageURL:  o.ImageURL,
		DailyKind: model.DailySingleOffer,
		DailyDate: o.Date,
		DailyID:   o.ID,
	}
}

// FromDailyMenu projects a daily set menu into a line candidate.
func FromDailyMenu(m model.DailyMenu) model.LineItem {
	name := m.Name
	if name == "" {
		name = m.Soup.Name + " + " + m.Main.Name
	}
	return model.LineItem{
		ID:         dailyLineID(model.DailySetMenu, m.Date, m.ID, m.Soup.ID, m.Main.ID),
		Name:       name,
		UnitPrice:  derefPrice(m.Price),
		DailyKind:  model.DailySetMenu,
		DailyDate:  m.Date,
		DailyID:    m.ID,
		Components: components(m.Soup, m.Main),
	}
}

// FromCompositeMenu projects a composite soup and main menu into a line
// candidate.
func FromCompositeMenu(m model.CompositeMenu) model.LineItem {
	return model.LineItem{
		ID:              dailyLineID(model.DailyCompositeMenu, m.Date, m.ID, m.Soup.ID, m.Main.ID),
		Name:            m.Soup.Name + " + " + m.Main.Name,
		UnitPrice:       derefPrice(m.Price),
		DailyKind:       model.DailyCompositeMenu,
		DailyDate:       m.Date,
		CompositeMenuID: m.ID,
		Components:      components(m.Soup, m.Main),
	}
}

func components(soup, main model.MenuComponent) *model.Components {
	return &model.Components{
		SoupID:   soup.ID,
		SoupName: soup.Name,
		MainID:   main.ID,
		MainName: main.Name,
	}
}

func derefPrice(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// AddDailySingleOffer adds a single daily offer.
func (s State) AddDailySingleOffer(o model.DailyOffer) State {
	return s.AddItem(FromDailyOffer(o))
}

// AddDailySetMenu adds a daily set menu.
func (s State) AddDailySetMenu(m model.DailyMenu) State {
	return s.AddItem(FromDailyMenu(m))
}

// AddCompositeMenu adds a composite menu.
func (s State) AddCompositeMenu(m model.CompositeMenu) State {
	return s.AddItem(FromCompositeMenu(m))
}
