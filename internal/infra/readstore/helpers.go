package readstore

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/infra"
	"hospital-ops/internal/pkg/errs"
)

func mapReadErr(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	return infra.WrapRepoErr(infra.KindDBFailure, msg, err)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, infra.WrapRepoErr(infra.KindDBFailure, "malformed numeric value", err)
	}
	return d, nil
}
