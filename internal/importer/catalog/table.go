package catalog

import (
	"context"
	"fmt"

	"catalogloader/internal/db"
)

// Target store layout.
const (
	productsTable = "amazon_products"
	reviewsTable  = "product_reviews"
)

var (
	productColumns = []string{
		"product_id", "product_name", "category",
		"discounted_price", "actual_price", "discount_percentage",
		"rating", "rating_count",
		"about_product", "img_link", "product_link",
	}
	reviewColumns = []string{
		"review_id", "product_id", "user_id", "user_name",
		"review_title", "review_content",
	}
)

// EnsureSchema creates the target tables when absent. The review text columns
// are bounded on purpose: an oversized value must surface as a truncation
// error instead of being stored as a multi-megabyte row.
func EnsureSchema(ctx context.Context, d db.DB) error {
	if err := d.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS amazon_products (
			product_id          VARCHAR(32) PRIMARY KEY,
			product_name        TEXT NOT NULL,
			category            TEXT NOT NULL,
			discounted_price    NUMERIC(12,2) NOT NULL DEFAULT 0,
			actual_price        NUMERIC(12,2) NOT NULL DEFAULT 0,
			discount_percentage INT NOT NULL DEFAULT 0,
			rating              NUMERIC(3,1),
			rating_count        INT NOT NULL DEFAULT 0,
			about_product       TEXT,
			img_link            TEXT,
			product_link        TEXT
		)`); err != nil {
		return fmt.Errorf("create %s: %w", productsTable, err)
	}
	if err := d.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS product_reviews (
			review_id      VARCHAR(1024) PRIMARY KEY,
			product_id     VARCHAR(32) NOT NULL REFERENCES amazon_products(product_id),
			user_id        VARCHAR(1024) NOT NULL,
			user_name      VARCHAR(1024) NOT NULL,
			review_title   VARCHAR(1024) NOT NULL,
			review_content TEXT
		)`); err != nil {
		return fmt.Errorf("create %s: %w", reviewsTable, err)
	}
	if err := d.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS product_reviews_product_id_idx ON product_reviews(product_id)`); err != nil {
		return fmt.Errorf("index %s: %w", reviewsTable, err)
	}
	return nil
}
