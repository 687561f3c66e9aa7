package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"catalogloader/internal/clean"
	"catalogloader/internal/config"
	"catalogloader/internal/csvutil"
	"catalogloader/internal/db"
	"catalogloader/internal/skiplog"
)

// Summary is the run report. It is always produced, fatal error or not, so
// the caller can see exactly what reached the store before the run stopped.
type Summary struct {
	RowsRead          int          `json:"rows_read"`
	Encoding          string       `json:"encoding"`
	ProductsAttempted int          `json:"products_attempted"`
	ProductsFailed    int          `json:"products_failed"`
	ReviewsAttempted  int          `json:"reviews_attempted"`
	ReviewsFailed     int          `json:"reviews_failed"`
	ProductsInserted  int          `json:"products_inserted"`
	ProductsSkipped   int          `json:"products_skipped"`
	ReviewsInserted   int          `json:"reviews_inserted"`
	ReviewsSkipped    int          `json:"reviews_skipped"`
	Committed         bool         `json:"committed"`
	Failures          []RowFailure `json:"failures"`
}

// ImportCatalog runs the full pipeline: read and decode the export, assemble
// records in chunks of cfg.BatchSize source rows, and write each chunk as one
// atomic transaction. Validation failures exclude their row and keep the run
// going; store-level failures stop the run with the failed chunk rolled back.
// Chunks that committed before a fatal error stay committed.
//
// The connection from factory is held exclusively for the duration of the run
// and released on every exit path.
func ImportCatalog(ctx context.Context, cfg *config.Config, factory db.Factory, path string) (*Summary, error) {
	sum := &Summary{}

	rows, enc, err := csvutil.ReadFile(path)
	if err != nil {
		return sum, err
	}
	sum.RowsRead = len(rows)
	sum.Encoding = enc
	log.Info().Str("path", path).Str("encoding", enc).Int("rows", len(rows)).Msg("catalog export read")

	d, err := factory(ctx)
	if err != nil {
		return sum, fmt.Errorf("open database: %w", err)
	}
	defer d.Close(ctx)

	if cfg.EnsureSchema {
		if err := EnsureSchema(ctx, d); err != nil {
			return sum, err
		}
	}

	var sk *skiplog.Log
	if cfg.SkippedDir != "" {
		sk, err = skiplog.New(cfg.SkippedDir, "skipped_catalog.csv")
		if err != nil {
			return sum, fmt.Errorf("open skip log: %w", err)
		}
		defer sk.Close()
	}

	policy := clean.ParsePolicy(cfg.Policy)
	w := &Writer{DB: d}

	chunk := cfg.BatchSize
	if chunk <= 0 {
		chunk = len(rows)
	}
	for start := 0; start < len(rows); start += chunk {
		end := min(start+chunk, len(rows))
		b := Assemble(rows[start:end], policy)

		sum.ProductsAttempted += b.ProductsAttempted
		sum.ProductsFailed += b.ProductsFailed
		sum.ReviewsAttempted += b.ReviewsAttempted
		sum.ReviewsFailed += b.ReviewsFailed
		sum.Failures = append(sum.Failures, b.Failures...)
		if sk != nil {
			for _, f := range b.Failures {
				sk.Add(f.Line, f.ProductID, f.Field, f.Reason)
			}
		}

		res, err := w.Write(ctx, b.Products, b.Reviews)
		if err != nil {
			return sum, err
		}
		sum.ProductsInserted += res.ProductsInserted
		sum.ProductsSkipped += res.ProductsSkipped
		sum.ReviewsInserted += res.ReviewsInserted
		sum.ReviewsSkipped += res.ReviewsSkipped

		log.Info().
			Int("rows", b.Rows).
			Int("products_inserted", res.ProductsInserted).
			Int("products_skipped", res.ProductsSkipped).
			Int("reviews_inserted", res.ReviewsInserted).
			Int("reviews_skipped", res.ReviewsSkipped).
			Int("failed_rows", b.ProductsFailed+b.ReviewsFailed).
			Msg("batch committed")
	}

	sum.Committed = true
	return sum, nil
}
