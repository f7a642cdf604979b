package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"renthub-backend/internal/repository"
)

type txKey struct{}

// querier is the subset of *sql.DB and *sql.Tx the repositories use, so a
// method runs against whichever the context carries.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) repository.TxManager {
	return &txManager{db: db}
}

// WithTx runs fn inside a single transaction. A call made while a
// transaction is already on the context joins it instead of nesting.
func (m *txManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

func run(ctx context.Context, db *sql.DB) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
