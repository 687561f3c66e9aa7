// Package db provides the Postgres adapter used by the loader. It wraps
// pgx.Conn/pgx.Tx behind small DB and Tx interfaces so pipelines can be
// tested hermetically against fakes.
//
// Design goals:
//   - Allow mocking via the pgConnLike/pgTxLike seams (no networked tests).
//   - Keep behavior minimal and predictable, with no implicit retries.
//   - Classify store rejections once, here, where the SQLSTATE is visible.
package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgConnLike is the minimal subset of *pgx.Conn the adapter touches. The
// seam lets tests inject a fake connection that mimics *pgx.Conn behavior.
type pgConnLike interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close(ctx context.Context) error
}

type pgDB struct{ conn pgConnLike }

// NewPgDB connects to Postgres using pgx.Connect and wraps the connection.
// Callers own the lifecycle and must Close it on every exit path.
func NewPgDB(ctx context.Context, dsn string) (DB, error) {
	c, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &pgDB{conn: c}, nil
}

// Exec delegates to pgx.Conn.Exec, returning only the error.
func (p *pgDB) Exec(ctx context.Context, q string, args ...any) error {
	_, err := p.conn.Exec(ctx, q, args...)
	return err
}

// BeginTx starts a transaction and wraps it in a pgTx.
func (p *pgDB) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

// Close closes the underlying connection.
func (p *pgDB) Close(ctx context.Context) error { return p.conn.Close(ctx) }

// pgTxLike is the subset of pgx.Tx the wrapper uses; pgx.Tx satisfies it.
type pgTxLike interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// pgTx wraps pgx.Tx to implement the Tx interface.
type pgTx struct{ tx pgTxLike }

// Exec executes a SQL statement within the transaction.
func (t *pgTx) Exec(ctx context.Context, q string, args ...any) error {
	_, err := t.tx.Exec(ctx, q, args...)
	return err
}

// InsertBatch queues one INSERT ... ON CONFLICT DO NOTHING per row and sends
// them as a single pgx.Batch round trip. Per-statement command tags tell
// inserted rows apart from rows the conflict target swallowed. The first
// statement error aborts the read-back and is classified against its row
// index so callers can report the offending record.
func (t *pgTx) InsertBatch(ctx context.Context, table string, columns []string, conflictKey string, rows [][]any) (BatchResult, error) {
	var res BatchResult
	if len(rows) == 0 {
		return res, nil
	}

	sql := insertDoNothingSQL(table, columns, conflictKey)
	b := &pgx.Batch{}
	for _, row := range rows {
		b.Queue(sql, row...)
	}

	br := t.tx.SendBatch(ctx, b)
	for i := range rows {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return BatchResult{}, classifyStoreError(table, i, err)
		}
		if tag.RowsAffected() > 0 {
			res.Inserted++
		} else {
			res.Skipped++
		}
	}
	if err := br.Close(); err != nil {
		return BatchResult{}, classifyStoreError(table, -1, err)
	}
	return res, nil
}

// Commit commits the active transaction.
func (t *pgTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

// Rollback aborts the active transaction.
func (t *pgTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// insertDoNothingSQL renders
//
//	INSERT INTO "t" ("a","b") VALUES ($1,$2) ON CONFLICT ("k") DO NOTHING
//
// for the given table, columns, and conflict key.
func insertDoNothingSQL(table string, columns []string, conflictKey string) string {
	ph := make([]string, len(columns))
	for i := range columns {
		ph[i] = "$" + strconv.Itoa(i+1)
	}
	return "INSERT INTO " + pgIdent(table) +
		" (" + strings.Join(mapIdent(columns), ",") + ")" +
		" VALUES (" + strings.Join(ph, ",") + ")" +
		" ON CONFLICT (" + pgIdent(conflictKey) + ") DO NOTHING"
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// mapIdent maps a list of column names to their quoted forms.
func mapIdent(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pgIdent(c)
	}
	return out
}

// Test-only constructors. They allow injection of fakes for hermetic tests.

// newPgDBFromConn constructs a pgDB from a pgConnLike fake.
func newPgDBFromConn(c pgConnLike) *pgDB { return &pgDB{conn: c} }

// newPgTxFrom wraps a pgTxLike fake into a pgTx.
func newPgTxFrom(tx pgTxLike) *pgTx { return &pgTx{tx: tx} }
