package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same repository
// code runs standalone or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRepos bundles the repositories that participate in lifecycle
// transactions: a status change or remark and its notification must land
// together.
type TxRepos struct {
	Complaints    ComplaintRepository
	Remarks       RemarkRepository
	Notifications NotificationRepository
}

// TxManager runs repository operations inside a single database transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(TxRepos) error) error
}

type pgxTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager builds a pgx-backed transaction manager.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgxTxManager{pool: pool}
}

func (m *pgxTxManager) WithinTx(ctx context.Context, fn func(TxRepos) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	repos := TxRepos{
		Complaints:    &complaintRepository{db: tx},
		Remarks:       &remarkRepository{db: tx},
		Notifications: &notificationRepository{db: tx},
	}
	if err := fn(repos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// IsUniqueViolation reports whether the error is a Postgres unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
