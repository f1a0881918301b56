package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
	"github.com/zmarties-lab/storefront-api/internal/core/storage"
)

// ProductAdapter implements storage.ProductStore for PostgreSQL.
// It shares the *sql.DB owned by the action adapter.
type ProductAdapter struct {
	db *sql.DB
}

// NewProductAdapter wraps an existing database handle.
func NewProductAdapter(db *sql.DB) *ProductAdapter {
	return &ProductAdapter{db: db}
}

// CreateProduct inserts a new catalog entry.
func (a *ProductAdapter) CreateProduct(ctx context.Context, product *v1.Product) error {
	imagesJSON, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to marshal images: %w", err)
	}

	_, err = a.db.ExecContext(ctx, queryCreateProduct,
		product.ID,
		product.Name,
		product.Category,
		product.Price.String(),
		product.Rate,
		product.Flavour,
		imagesJSON,
		nullString(product.Video),
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	slog.Debug("[Postgres] Created product", "product_id", product.ID, "category", product.Category)
	return nil
}

// GetProduct fetches one product by id.
func (a *ProductAdapter) GetProduct(ctx context.Context, id string) (*v1.Product, error) {
	product, err := scanProductRow(a.db.QueryRowContext(ctx, queryGetProduct, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListProducts returns products newest first, optionally category-filtered.
func (a *ProductAdapter) ListProducts(ctx context.Context, category string) ([]v1.Product, error) {
	var rows *sql.Rows
	var err error

	if category == "" {
		rows, err = a.db.QueryContext(ctx, queryListProducts)
	} else {
		rows, err = a.db.QueryContext(ctx, queryListProductsByCategory, category)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []v1.Product
	for rows.Next() {
		p, scanErr := scanProductRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", scanErr)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// UpdateProduct replaces the mutable fields of an existing product.
func (a *ProductAdapter) UpdateProduct(ctx context.Context, product *v1.Product) error {
	imagesJSON, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to marshal images: %w", err)
	}

	result, err := a.db.ExecContext(ctx, queryUpdateProduct,
		product.ID,
		product.Name,
		product.Category,
		product.Price.String(),
		product.Rate,
		product.Flavour,
		imagesJSON,
		nullString(product.Video),
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteProduct removes one product by id.
func (a *ProductAdapter) DeleteProduct(ctx context.Context, id string) error {
	result, err := a.db.ExecContext(ctx, queryDeleteProduct, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	slog.Debug("[Postgres] Deleted product", "product_id", id)
	return nil
}

// CountProductsByCategory returns per-category counts for the dashboard.
func (a *ProductAdapter) CountProductsByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := a.db.QueryContext(ctx, queryCountProductsByCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category counts: %w", err)
	}

	return counts, nil
}
