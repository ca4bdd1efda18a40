package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Sentinel errors for unique-constraint violations. Callers match these
// with errors.Is; sql.ErrNoRows remains the not-found signal.
var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateTitle = errors.New("post title already exists")
)

// DBTX is the subset of database operations the query layer needs.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries exposes the typed query surface over a database or transaction.
type Queries struct {
	db DBTX
}

// New creates the query surface backed by db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// constraintError maps a SQLite unique-constraint failure on the given
// column to a sentinel error; other errors pass through unchanged.
// Both the modernc and mattn drivers include the qualified column name
// in the error text.
func constraintError(err error, column string, sentinel error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed: "+column) {
		return sentinel
	}
	return err
}
