package main

import (
	"context"
	"errors"
	"testing"

	"catalogloader/internal/config"
	"catalogloader/internal/db"
	"catalogloader/internal/importer/catalog"
)

func TestRun_WiresConfigIntoPipeline(t *testing.T) {
	cfg := &config.Config{
		CatalogCSV: "exports/amazon.csv",
		DSN:        "postgres://u:p@db:5432/catalog",
	}

	var gotPath, gotDSN string
	deps := Deps{
		NewPgDB: func(ctx context.Context, dsn string) (db.DB, error) {
			gotDSN = dsn
			return nil, nil
		},
		Import: func(ctx context.Context, c *config.Config, factory db.Factory, path string) (*catalog.Summary, error) {
			gotPath = path
			if _, err := factory(ctx); err != nil {
				t.Fatalf("factory: %v", err)
			}
			return &catalog.Summary{Committed: true}, nil
		},
	}

	if err := run(context.Background(), cfg, deps); err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotPath != "exports/amazon.csv" {
		t.Fatalf("pipeline got path %q", gotPath)
	}
	if gotDSN != "postgres://u:p@db:5432/catalog" {
		t.Fatalf("factory got dsn %q", gotDSN)
	}
}

func TestRun_PropagatesPipelineError(t *testing.T) {
	boom := errors.New("store unavailable")
	deps := Deps{
		NewPgDB: func(ctx context.Context, dsn string) (db.DB, error) { return nil, nil },
		Import: func(ctx context.Context, c *config.Config, factory db.Factory, path string) (*catalog.Summary, error) {
			return &catalog.Summary{}, boom
		},
	}

	err := run(context.Background(), &config.Config{}, deps)
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped pipeline error, got %v", err)
	}
}

func TestLogSummary_NilIsSafe(t *testing.T) {
	logSummary(nil)
}
