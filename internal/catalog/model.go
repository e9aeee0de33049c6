package catalog

import "time"

// Category is the fixed perfume classification used by the storefront filters.
type Category string

const (
	CategoryHomme Category = "Homme"
	CategoryFemme Category = "Femme"
	CategoryMixte Category = "Mixte"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryHomme, CategoryFemme, CategoryMixte:
		return true
	}
	return false
}

type Image struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	// Price is in whole FCFA; the currency has no sub-units.
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	Images    []Image   `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
