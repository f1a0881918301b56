package v1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product categories as used by the shop pages and the admin console.
const (
	CategoryFlowers   = "flowers"
	CategoryNonFlower = "nonflower"
	CategoryBulk      = "bulk"
)

// Product is a catalog entry. Media fields hold durable blob-store URLs,
// never raw bytes.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Rate      int             `json:"rate"` // 0..10 popularity rating
	Flavour   string          `json:"flavour"`
	Images    []string        `json:"images"`
	Video     string          `json:"video,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ValidCategory reports whether s is a recognized product category.
func ValidCategory(s string) bool {
	switch s {
	case CategoryFlowers, CategoryNonFlower, CategoryBulk:
		return true
	}
	return false
}

// Validate checks the catalog invariants before persistence.
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}

	if p.Name == "" {
		return fmt.Errorf("name is required")
	}

	if !ValidCategory(p.Category) {
		return fmt.Errorf("invalid category %q", p.Category)
	}

	if !p.Price.IsPositive() {
		return fmt.Errorf("price must be > 0, got %s", p.Price)
	}

	if p.Rate < 0 || p.Rate > 10 {
		return fmt.Errorf("rate must be between 0 and 10, got %d", p.Rate)
	}

	if p.Flavour == "" {
		return fmt.Errorf("flavour is required")
	}

	if len(p.Images) == 0 {
		return fmt.Errorf("at least one image is required")
	}

	return nil
}
