package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the loader cares about. Truncation gets its own error type
// because it is a data-quality defect that must be reported against the
// offending record, never retried or silently shortened.
const (
	sqlstateStringDataRightTruncation = "22001"
	sqlstateForeignKeyViolation       = "23503"
)

// TruncationError is a batch-fatal store rejection caused by a value that
// exceeds a column's capacity. RowIndex is the position of the offending row
// within the failed statement batch, or -1 when the driver could not say.
type TruncationError struct {
	Table    string
	RowIndex int
	Detail   string
	Err      error
}

func (e *TruncationError) Error() string {
	return fmt.Sprintf("value too long for %s (batch row %d): %s", e.Table, e.RowIndex, e.Detail)
}

func (e *TruncationError) Unwrap() error { return e.Err }

// PersistenceError is any other batch-fatal store failure: a constraint
// violation outside the conflict target, lost connectivity, and so on.
type PersistenceError struct {
	Table      string
	RowIndex   int
	Code       string // SQLSTATE when the driver reported one
	Constraint string
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s insert failed (batch row %d, SQLSTATE %s): %v", e.Table, e.RowIndex, e.Code, e.Err)
	}
	return fmt.Sprintf("%s insert failed (batch row %d): %v", e.Table, e.RowIndex, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsForeignKeyViolation reports whether err is a persistence failure caused
// by a reference to a product the store has never seen.
func IsForeignKeyViolation(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Code == sqlstateForeignKeyViolation
}

// classifyStoreError converts a driver error into the batch-fatal taxonomy.
func classifyStoreError(table string, rowIndex int, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.SQLState() == sqlstateStringDataRightTruncation {
			return &TruncationError{Table: table, RowIndex: rowIndex, Detail: pgErr.Message, Err: err}
		}
		return &PersistenceError{
			Table:      table,
			RowIndex:   rowIndex,
			Code:       pgErr.SQLState(),
			Constraint: pgErr.ConstraintName,
			Err:        err,
		}
	}
	return &PersistenceError{Table: table, RowIndex: rowIndex, Err: err}
}
