package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups food items (table categories) or drinks (table drink_categories).
type Category struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"kind"`
	NameAr        string    `json:"nameAr"`
	DescriptionAr string    `json:"descriptionAr,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	DisplayOrder  int       `json:"displayOrder"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Product is a menu item or a drink. Fields that only exist on one of the
// two tables are left zero for the other kind.
type Product struct {
	ID              string          `json:"id"`
	Kind            Kind            `json:"kind"`
	CategoryID      string          `json:"categoryId,omitempty"`
	CategoryName    string          `json:"categoryName,omitempty"`
	NameAr          string          `json:"nameAr"`
	DescriptionAr   string          `json:"descriptionAr,omitempty"`
	Price           decimal.Decimal `json:"price"`
	IsAvailable     bool            `json:"isAvailable"`
	IsFeatured      bool            `json:"isFeatured"`
	DisplayOrder    int             `json:"displayOrder"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	IngredientsAr   string          `json:"ingredientsAr,omitempty"`
	IngredientsEn   string          `json:"ingredientsEn,omitempty"`
	PreparationTime int             `json:"preparationTime,omitempty"`
	Size            string          `json:"size,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID    string
	AvailableOnly bool
	FeaturedOnly  bool
	Limit         int
}
