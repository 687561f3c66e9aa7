package db

import "context"

// DB is a connection capable of executing DDL/DML and starting transactions.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) error
	BeginTx(ctx context.Context) (Tx, error)
	Close(ctx context.Context) error
}

// Tx supports statement batching and transaction lifecycle. InsertBatch
// queues one conflict-tolerant insert per row, so re-running an identical
// batch is a no-op and the caller can tell inserted rows from duplicates.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) error
	InsertBatch(ctx context.Context, table string, columns []string, conflictKey string, rows [][]any) (BatchResult, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// BatchResult summarizes one InsertBatch call.
type BatchResult struct {
	Inserted int // rows the store reports as newly written
	Skipped  int // rows swallowed by the conflict target
}

// Factory mints a new DB connection.
type Factory func(ctx context.Context) (DB, error)
