package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("record not found")

// ActionStore persists the append-only user-action log and answers the
// aggregate count queries the reporting layer needs.
//
// Ordering contract for every listing method: CreatedAt descending, with
// ties broken by insertion order (earlier-inserted first). The analytics
// grouping core depends on that ordering.
type ActionStore interface {
	// SaveAction appends one record and populates its Seq.
	SaveAction(ctx context.Context, record *v1.ActionRecord) error

	// ListActions returns the entire log, newest first.
	ListActions(ctx context.Context) ([]v1.ActionRecord, error)

	// ListActionsPage returns one flat page of the log, newest first.
	// offset/limit address raw records, not groups.
	ListActionsPage(ctx context.Context, offset, limit int) ([]v1.ActionRecord, error)

	// RecentActions returns the newest limit records.
	RecentActions(ctx context.Context, limit int) ([]v1.ActionRecord, error)

	// CountActions returns the total number of records in the log.
	CountActions(ctx context.Context) (int, error)

	// CountDistinctIPs counts unique normalized IP values among records
	// with the given action. Records without an address count as the one
	// "unknown" value.
	CountDistinctIPs(ctx context.Context, action string) (int, error)

	// CountDistinctIPsSince is CountDistinctIPs restricted to records with
	// CreatedAt >= since.
	CountDistinctIPsSince(ctx context.Context, action string, since time.Time) (int, error)
}

// ProductStore persists catalog entries.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *v1.Product) error

	// GetProduct returns ErrNotFound when no product has the given id.
	GetProduct(ctx context.Context, id string) (*v1.Product, error)

	// ListProducts returns products newest first. category filters when
	// non-empty.
	ListProducts(ctx context.Context, category string) ([]v1.Product, error)

	// UpdateProduct replaces the mutable fields of an existing product.
	// Returns ErrNotFound when no product has the given id.
	UpdateProduct(ctx context.Context, product *v1.Product) error

	// DeleteProduct returns ErrNotFound when no product has the given id.
	DeleteProduct(ctx context.Context, id string) error

	// CountProductsByCategory returns per-category product counts.
	CountProductsByCategory(ctx context.Context) (map[string]int, error)
}
