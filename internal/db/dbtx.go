package db

import (
	"context"
	"database/sql"
)

// DBTX abstracts over *sql.DB and *sql.Tx so the record and notification
// repositories run both standalone and inside a transition's transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Both sql handles must keep satisfying DBTX.
var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
