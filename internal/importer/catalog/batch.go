package catalog

import (
	"catalogloader/internal/clean"
	"catalogloader/internal/csvutil"
	"catalogloader/internal/domain"
)

// Batch is the outcome of assembling one slice of rows: insertion-ordered
// products and reviews plus every per-row failure. Duplicate natural keys
// are kept on purpose; the store's conflict target resolves them, and
// deduplicating here would hide which source rows were duplicates.
type Batch struct {
	Products []domain.Product
	Reviews  []domain.Review
	Failures []RowFailure

	Rows              int
	ProductsAttempted int
	ProductsFailed    int
	ReviewsAttempted  int
	ReviewsFailed     int
}

// Assemble builds records for every row, preserving source order within each
// collection. A row that fails validation is excluded and reported; it never
// stops the rest of the batch.
func Assemble(rows []csvutil.Row, policy clean.Policy) Batch {
	b := Batch{Rows: len(rows)}
	for _, row := range rows {
		rec, fails := BuildRow(row, policy)
		b.Failures = append(b.Failures, fails...)

		b.ProductsAttempted++
		if rec.Product != nil {
			b.Products = append(b.Products, *rec.Product)
		} else {
			b.ProductsFailed++
		}

		if rec.HadReview {
			b.ReviewsAttempted++
			if rec.Review != nil {
				b.Reviews = append(b.Reviews, *rec.Review)
			} else {
				b.ReviewsFailed++
			}
		}
	}
	return b
}
