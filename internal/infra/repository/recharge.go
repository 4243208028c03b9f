package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

type RechargeRepository struct {
	db Querier
}

func NewRechargeRepository(db Querier) *RechargeRepository {
	return &RechargeRepository{db: db}
}

func scanRecharge(row pgx.Row) (*shared.Recharge, error) {
	var rec shared.Recharge
	var amount string

	err := row.Scan(
		&rec.ID,
		&rec.RechargeNo,
		&rec.PatientID,
		&amount,
		&rec.PayMethod,
		&rec.Status,
		&rec.SettledAt,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "scan recharge")
	}

	if rec.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RechargeRepository) Create(ctx context.Context, rec *shared.Recharge) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO recharges (
			id, recharge_no, patient_id, amount, pay_method, status, settled_at, created_at
		)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, now())
	`, rec.ID, rec.RechargeNo, rec.PatientID, rec.Amount.String(),
		rec.PayMethod, rec.Status, rec.SettledAt)
	if err != nil {
		return mapPgError(err, "insert recharge")
	}
	return nil
}

func (r *RechargeRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.Recharge, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, recharge_no, patient_id, amount::text, pay_method, status, settled_at, created_at
		FROM recharges
		WHERE id = $1
		FOR UPDATE
	`, id)
	return scanRecharge(row)
}

func (r *RechargeRepository) Settle(ctx context.Context, id uuid.UUID, method reservation.PayMethod, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE recharges
		SET status = $2,
		    pay_method = $3,
		    settled_at = $4
		WHERE id = $1
		  AND status = $5
	`, id, reservation.RechargeSettled, method, at, reservation.RechargePending)
	if err != nil {
		return mapPgError(err, "settle recharge")
	}
	if tag.RowsAffected() == 0 {
		return r.missOrStale(ctx, id)
	}
	return nil
}

func (r *RechargeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE recharges
		SET status = $2
		WHERE id = $1
		  AND status = $3
	`, id, to, from)
	if err != nil {
		return mapPgError(err, "update recharge status")
	}
	if tag.RowsAffected() == 0 {
		return r.missOrStale(ctx, id)
	}
	return nil
}

func (r *RechargeRepository) missOrStale(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM recharges WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return mapPgError(err, "check recharge existence")
	}
	if !exists {
		return errs.ErrNotFound
	}
	return errs.ErrInvalidTransition
}

var _ shared.RechargeRepository = (*RechargeRepository)(nil)
