package catalog

import (
	"github.com/shopspring/decimal"
)

// CreateProductRequest carries validated admin input plus the raw media
// bytes to push through the blob store.
type CreateProductRequest struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Rate     int
	Flavour  string
	Images   [][]byte
	Video    []byte
}

// UpdateProductRequest replaces a product's mutable fields. Media is
// optional: with no new images the stored URLs are kept.
type UpdateProductRequest struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Rate     int
	Flavour  string
	Images   [][]byte
	Video    []byte
}

// DashboardStats summarizes the catalog for the admin console.
type DashboardStats struct {
	TotalProducts int            `json:"total_products"`
	ByCategory    map[string]int `json:"by_category"`
}
