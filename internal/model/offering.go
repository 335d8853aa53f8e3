package model

// DailyOffer is a single dish offered on a specific date.
type DailyOffer struct {
	ID       string `json:"id" validate:"required,notblank,max=255"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Price    *int   `json:"price" validate:"required,gte=0,lte=10000000"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// MenuComponent is a sub-item (soup or main) of a daily menu.
type MenuComponent struct {
	ID   string `json:"id" validate:"required,notblank,max=255"`
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// DailyMenu is a fixed soup and main set sold on a specific date.
type DailyMenu struct {
	ID    string        `json:"id" validate:"required,notblank,max=255"`
	Date  string        `json:"date" validate:"required,datetime=2006-01-02"`
	Name  string        `json:"name" validate:"max=255"`
	Price *int          `json:"price" validate:"required,gte=0,lte=10000000"`
	Soup  MenuComponent `json:"soup"`
	Main  MenuComponent `json:"main"`
}

// CompositeMenu is a customer-assembled soup and main combination priced
// as one menu.
type CompositeMenu struct {
	ID    string        `json:"id" validate:"required,notblank,max=255"`
	Date  string        `json:"date" validate:"required,datetime=2006-01-02"`
	Price *int          `json:"price" validate:"required,gte=0,lte=10000000"`
	Soup  MenuComponent `json:"soup"`
	Main  MenuComponent `json:"main"`
}
