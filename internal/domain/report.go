package domain

import "github.com/shopspring/decimal"

// OrderSummary aggregates orders created since a cut-off.
type OrderSummary struct {
	Revenue         decimal.Decimal `json:"revenue"`
	TotalOrders     int             `json:"totalOrders"`
	UniqueCustomers int             `json:"uniqueCustomers"`
}

// ProductSales is a popular-products row.
type ProductSales struct {
	Name          string          `json:"name"`
	Kind          Kind            `json:"kind"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// StatusCount is one orders-by-status bucket.
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int         `json:"count"`
}

// DayRevenue is delivered revenue for a calendar day (YYYY-MM-DD, UTC).
type DayRevenue struct {
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
}

// CategoryStats counts products and ordered units per category.
type CategoryStats struct {
	CategoryName string `json:"categoryName"`
	Kind         Kind   `json:"kind"`
	ProductCount int    `json:"productCount"`
	TotalOrdered int    `json:"totalOrdered"`
}
