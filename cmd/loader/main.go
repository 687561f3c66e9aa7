// Command loader ingests the product catalog export into Postgres. It is a
// thin composition layer: .env loading, configuration, logging, a DB factory,
// and the catalog pipeline, with side effects injected via Deps so run()
// stays testable.
package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"catalogloader/internal/config"
	"catalogloader/internal/db"
	"catalogloader/internal/importer/catalog"
	"catalogloader/pkg/logger"
)

// Deps holds injectable dependencies so run() is fully testable. Tests pass
// fakes here; defaultDeps wires the real implementations.
type Deps struct {
	NewPgDB func(ctx context.Context, dsn string) (db.DB, error)
	Import  func(ctx context.Context, cfg *config.Config, factory db.Factory, path string) (*catalog.Summary, error)
}

func defaultDeps() Deps {
	return Deps{
		NewPgDB: db.NewPgDB,
		Import:  catalog.ImportCatalog,
	}
}

// run executes the program logic for one ingestion run: build the DB factory
// from config, run the pipeline, and report the summary whether or not the
// run ended in an error.
func run(ctx context.Context, cfg *config.Config, deps Deps) error {
	dsn := cfg.PostgresDSN()
	factory := func(ctx context.Context) (db.DB, error) { return deps.NewPgDB(ctx, dsn) }

	sum, err := deps.Import(ctx, cfg, factory, cfg.CatalogCSV)
	logSummary(sum)
	if err != nil {
		return fmt.Errorf("catalog import: %w", err)
	}
	return nil
}

// logSummary emits the run summary plus one warning per excluded row.
func logSummary(sum *catalog.Summary) {
	if sum == nil {
		return
	}
	for _, f := range sum.Failures {
		log.Warn().
			Int("line", f.Line).
			Str("product_id", f.ProductID).
			Str("field", f.Field).
			Str("reason", f.Reason).
			Msg("row excluded")
	}
	log.Info().
		Int("rows_read", sum.RowsRead).
		Str("encoding", sum.Encoding).
		Int("products_attempted", sum.ProductsAttempted).
		Int("products_failed", sum.ProductsFailed).
		Int("reviews_attempted", sum.ReviewsAttempted).
		Int("reviews_failed", sum.ReviewsFailed).
		Int("products_inserted", sum.ProductsInserted).
		Int("products_skipped", sum.ProductsSkipped).
		Int("reviews_inserted", sum.ReviewsInserted).
		Int("reviews_skipped", sum.ReviewsSkipped).
		Bool("committed", sum.Committed).
		Msg("run summary")
}

func main() {
	// .env first so config sees the variables; a missing file is fine.
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.PrettyLogs)

	if err := run(context.Background(), cfg, defaultDeps()); err != nil {
		log.Fatal().Err(err).Msg("catalog import failed")
	}
}
