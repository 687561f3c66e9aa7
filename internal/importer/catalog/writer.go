package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"catalogloader/internal/db"
	"catalogloader/internal/domain"
)

// Writer persists assembled batches. One Write call is one transaction:
// every product first, then every review, both behind ON CONFLICT DO NOTHING
// on their natural key, committed or rolled back as a unit. Reviews going
// second is what lets their foreign keys resolve against products from the
// same batch.
type Writer struct {
	DB db.DB
}

// WriteResult reports what one atomic batch did to the store.
type WriteResult struct {
	ProductsInserted int
	ProductsSkipped  int
	ReviewsInserted  int
	ReviewsSkipped   int
}

// Write persists one batch atomically. A store-level failure rolls the whole
// transaction back and surfaces as a *db.TruncationError or
// *db.PersistenceError; no partial batch is ever left committed.
func (w *Writer) Write(ctx context.Context, products []domain.Product, reviews []domain.Review) (WriteResult, error) {
	var res WriteResult
	if len(products) == 0 && len(reviews) == 0 {
		return res, nil
	}

	tx, err := w.DB.BeginTx(ctx)
	if err != nil {
		return res, fmt.Errorf("begin batch tx: %w", err)
	}
	// Rollback after a successful Commit is a no-op; this is the single
	// abort path for every failure below.
	defer func() { _ = tx.Rollback(ctx) }()

	productRows := asProductRows(products)
	pr, err := tx.InsertBatch(ctx, productsTable, productColumns, "product_id", productRows)
	if err != nil {
		reportTruncation(err, productColumns, productRows)
		return WriteResult{}, err
	}
	res.ProductsInserted, res.ProductsSkipped = pr.Inserted, pr.Skipped

	reviewRows := asReviewRows(reviews)
	rr, err := tx.InsertBatch(ctx, reviewsTable, reviewColumns, "review_id", reviewRows)
	if err != nil {
		reportTruncation(err, reviewColumns, reviewRows)
		return WriteResult{}, err
	}
	res.ReviewsInserted, res.ReviewsSkipped = rr.Inserted, rr.Skipped

	if err := tx.Commit(ctx); err != nil {
		return WriteResult{}, fmt.Errorf("commit batch: %w", err)
	}
	return res, nil
}

// reportTruncation logs the string field lengths of the record the store
// refused. That is exactly what remediation needs: which field, how long.
func reportTruncation(err error, columns []string, rows [][]any) {
	var terr *db.TruncationError
	if !errors.As(err, &terr) || terr.RowIndex < 0 || terr.RowIndex >= len(rows) {
		return
	}
	ev := log.Error().Str("table", terr.Table).Int("batch_row", terr.RowIndex)
	for i, c := range columns {
		switch v := rows[terr.RowIndex][i].(type) {
		case string:
			ev = ev.Int("len_"+c, len(v))
		case *string:
			if v != nil {
				ev = ev.Int("len_"+c, len(*v))
			}
		}
	}
	ev.Msg("insert rejected: value exceeds column capacity")
}

func asProductRows(products []domain.Product) [][]any {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{
			p.ProductID, p.ProductName, p.Category,
			p.DiscountedPrice, p.ActualPrice, p.DiscountPercentage,
			p.Rating, p.RatingCount,
			p.AboutProduct, p.ImgLink, p.ProductLink,
		})
	}
	return rows
}

func asReviewRows(reviews []domain.Review) [][]any {
	rows := make([][]any, 0, len(reviews))
	for _, r := range reviews {
		rows = append(rows, []any{
			r.ReviewID, r.ProductID, r.UserID, r.UserName,
			r.ReviewTitle, r.ReviewContent,
		})
	}
	return rows
}
