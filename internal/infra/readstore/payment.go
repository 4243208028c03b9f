package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/infra/repository"
	"hospital-ops/internal/usecase/queries"
)

type PaymentReadStore struct {
	db repository.Querier
}

func NewPaymentReadStore(db repository.Querier) *PaymentReadStore {
	return &PaymentReadStore{db: db}
}

func scanPaymentView(row pgx.Row) (*queries.PaymentView, error) {
	var v queries.PaymentView
	var amount string

	err := row.Scan(
		&v.ID,
		&v.PaymentNo,
		&v.PatientID,
		&v.Type,
		&v.RefID,
		&amount,
		&v.PayMethod,
		&v.Status,
		&v.PaidAt,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, mapReadErr(err, "scan payment view")
	}
	if v.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	return &v, nil
}

func scanRechargeView(row pgx.Row) (*queries.RechargeView, error) {
	var v queries.RechargeView
	var amount string

	err := row.Scan(
		&v.ID,
		&v.RechargeNo,
		&v.PatientID,
		&amount,
		&v.PayMethod,
		&v.Status,
		&v.SettledAt,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, mapReadErr(err, "scan recharge view")
	}
	if v.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PaymentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, payment_no, patient_id, payment_type, ref_id,
		       amount::text, pay_method, status, paid_at, created_at
		FROM payments
		WHERE id = $1
	`, id)
	return scanPaymentView(row)
}

func (r *PaymentReadStore) ListByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.PaymentView, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, `
		SELECT id, payment_no, patient_id, payment_type, ref_id,
		       amount::text, pay_method, status, paid_at, created_at
		FROM payments
		WHERE patient_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, patientID, page.Limit(), page.Offset())
	if err != nil {
		return nil, mapReadErr(err, "list payments")
	}
	defer rows.Close()

	var result []*queries.PaymentView
	for rows.Next() {
		v, err := scanPaymentView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr(err, "iterate payments")
	}
	return result, nil
}

func (r *PaymentReadStore) FindRechargeByID(ctx context.Context, id uuid.UUID) (*queries.RechargeView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, recharge_no, patient_id, amount::text, pay_method, status, settled_at, created_at
		FROM recharges
		WHERE id = $1
	`, id)
	return scanRechargeView(row)
}

func (r *PaymentReadStore) ListRechargesByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.RechargeView, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, `
		SELECT id, recharge_no, patient_id, amount::text, pay_method, status, settled_at, created_at
		FROM recharges
		WHERE patient_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, patientID, page.Limit(), page.Offset())
	if err != nil {
		return nil, mapReadErr(err, "list recharges")
	}
	defer rows.Close()

	var result []*queries.RechargeView
	for rows.Next() {
		v, err := scanRechargeView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr(err, "iterate recharges")
	}
	return result, nil
}

var _ queries.PaymentQueries = (*PaymentReadStore)(nil)
