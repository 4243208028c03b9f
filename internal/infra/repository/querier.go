// Package repository holds the write-side Postgres repositories. Each one is
// handed the transaction's querier by the unit of work; none of them owns a
// pool or begins transactions. Capacity and balance mutations are guarded
// single-statement UPDATEs so the row lock and the invariant check are one
// atomic step.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/infra"
	"hospital-ops/internal/pkg/errs"
)

// Querier is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
	pgErrCodeCheckViolation      = "23514"
	pgErrCodeLockNotAvailable    = "55P03"
)

func mapPgError(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(infra.KindDuplicateKey, msg, err)
		case pgErrCodeForeignKeyViolation:
			return infra.WrapRepoErr(infra.KindForeignKeyViolated, msg, err)
		case pgErrCodeCheckViolation:
			return infra.WrapRepoErr(infra.KindCheckViolated, msg, err)
		case pgErrCodeLockNotAvailable:
			return errs.Mark(infra.WrapRepoErr(infra.KindLockTimeout, msg, err), errs.ErrBusy)
		}
	}

	return infra.WrapRepoErr(infra.KindDBFailure, msg, err)
}

// NUMERIC columns are selected with a ::text cast and parsed here so money
// never rounds through float64.
func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, infra.WrapRepoErr(infra.KindDBFailure, "malformed numeric value", err)
	}
	return d, nil
}
