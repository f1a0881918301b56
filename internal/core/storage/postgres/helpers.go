package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
)

// nullString maps "" to SQL NULL so optional columns stay NULL rather than
// storing empty strings.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullDecimal maps a nil price to SQL NULL.
func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanActionRow scans a database row into an ActionRecord.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanActionRow(row scanner) (*v1.ActionRecord, error) {
	var rec v1.ActionRecord
	var productID, totalPrice, ipAddress, country sql.NullString

	err := row.Scan(
		&rec.ID,
		&rec.Action,
		&productID,
		&rec.Quantity,
		&totalPrice,
		&ipAddress,
		&country,
		&rec.CreatedAt,
		&rec.Seq,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan action row: %w", err)
	}

	rec.ProductID = productID.String
	rec.IPAddress = ipAddress.String
	rec.Country = country.String

	if totalPrice.Valid {
		price, err := decimal.NewFromString(totalPrice.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse total_price %q: %w", totalPrice.String, err)
		}
		rec.TotalPrice = &price
	}

	return &rec, nil
}

// collectActionRows drains rows into a slice, preserving result order.
func collectActionRows(rows *sql.Rows) ([]v1.ActionRecord, error) {
	var records []v1.ActionRecord
	for rows.Next() {
		rec, err := scanActionRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actions: %w", err)
	}

	return records, nil
}

// scanProductRow scans a database row into a Product. Image URLs are stored
// as a JSON array in a text column.
func scanProductRow(row scanner) (*v1.Product, error) {
	var p v1.Product
	var price string
	var imagesJSON []byte
	var video sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&price,
		&p.Rate,
		&p.Flavour,
		&imagesJSON,
		&video,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", price, err)
	}
	p.Price = parsed

	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal images: %w", err)
		}
	}

	p.Video = video.String

	return &p, nil
}
