package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type txKey struct{}

// queryable is satisfied by both *sql.DB and *sql.Tx so repositories can
// run against the transaction carried in the context, or the pool when
// no transaction is open.
type queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func querier(ctx context.Context, db *sql.DB) queryable {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// TxRunner executes functions inside a database transaction. The open
// transaction travels in the context, so repository calls made from fn
// join it automatically. Nested Do calls reuse the outer transaction.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner returns a runner bound to the pool.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Do runs fn within a transaction, committing on nil error and rolling
// back otherwise.
func (r *TxRunner) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tx: begin: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx: rollback: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx: commit: %w", err)
	}
	return nil
}
