package models

import "time"

// Category is the closed set of menu sections.
type Category string

const (
	CategoryPizza     Category = "pizza"
	CategorySides     Category = "sides"
	CategoryBeverages Category = "beverages"
	CategoryDesserts  Category = "desserts"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPizza, CategorySides, CategoryBeverages, CategoryDesserts:
		return true
	}
	return false
}

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     Category  `json:"category"`
	BasePrice    float64   `json:"basePrice"`
	Image        string    `json:"image"`
	IsVeg        bool      `json:"isVeg"`
	IsAvailable  bool      `json:"isAvailable"`
	Inventory    int       `json:"inventory"`
	MaxInventory int       `json:"maxInventory"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
