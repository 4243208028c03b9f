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

type PaymentRepository struct {
	db Querier
}

func NewPaymentRepository(db Querier) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func scanPayment(row pgx.Row) (*shared.Payment, error) {
	var p shared.Payment
	var amount string

	err := row.Scan(
		&p.ID,
		&p.PaymentNo,
		&p.PatientID,
		&p.Type,
		&p.RefID,
		&amount,
		&p.PayMethod,
		&p.Status,
		&p.PaidAt,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "scan payment")
	}

	if p.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *shared.Payment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (
			id, payment_no, patient_id, payment_type, ref_id,
			amount, pay_method, status, paid_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, now())
	`, p.ID, p.PaymentNo, p.PatientID, p.Type, p.RefID,
		p.Amount.String(), p.PayMethod, p.Status, p.PaidAt)
	if err != nil {
		return mapPgError(err, "insert payment")
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.Payment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, payment_no, patient_id, payment_type, ref_id,
		       amount::text, pay_method, status, paid_at, created_at
		FROM payments
		WHERE id = $1
		FOR UPDATE
	`, id)
	return scanPayment(row)
}

// Settle is a compare-and-set from pending; a zero-row update on an existing
// payment means it already left the pending state.
func (r *PaymentRepository) Settle(ctx context.Context, id uuid.UUID, method reservation.PayMethod, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments
		SET status = $2,
		    pay_method = $3,
		    paid_at = $4
		WHERE id = $1
		  AND status = $5
	`, id, reservation.PaymentSettled, method, at, reservation.PaymentPending)
	if err != nil {
		return mapPgError(err, "settle payment")
	}
	if tag.RowsAffected() == 0 {
		return r.missOrStale(ctx, id)
	}
	return nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments
		SET status = $2
		WHERE id = $1
		  AND status = $3
	`, id, to, from)
	if err != nil {
		return mapPgError(err, "update payment status")
	}
	if tag.RowsAffected() == 0 {
		return r.missOrStale(ctx, id)
	}
	return nil
}

func (r *PaymentRepository) missOrStale(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return mapPgError(err, "check payment existence")
	}
	if !exists {
		return errs.ErrNotFound
	}
	return errs.ErrInvalidTransition
}

var _ shared.PaymentRepository = (*PaymentRepository)(nil)
