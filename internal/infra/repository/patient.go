package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

// PatientRepository carries the balance ledger. Debit is a guarded update:
// the funds check and the subtraction hold the row lock together, so the
// balance can never go negative no matter how many settlements race.
type PatientRepository struct {
	db Querier
}

func NewPatientRepository(db Querier) *PatientRepository {
	return &PatientRepository{db: db}
}

func scanPatient(row pgx.Row) (*shared.Patient, error) {
	var p shared.Patient
	var balance string

	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.PasswordHash,
		&p.Name,
		&p.Phone,
		&p.MedicalCardNo,
		&balance,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "scan patient")
	}

	if p.Balance, err = parseDecimal(balance); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) Create(ctx context.Context, p *shared.Patient) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO patients (
			id, username, password_hash, name, phone, medical_card_no, balance, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, now())
	`, p.ID, p.Username, p.PasswordHash, p.Name, p.Phone, p.MedicalCardNo, p.Balance.String())
	if err != nil {
		return mapPgError(err, "insert patient")
	}
	return nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.Patient, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, name, phone, medical_card_no, balance::text, created_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PatientRepository) FindByUsername(ctx context.Context, username string) (*shared.Patient, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, name, phone, medical_card_no, balance::text, created_at
		FROM patients
		WHERE username = $1
	`, username)
	return scanPatient(row)
}

func (r *PatientRepository) Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, errs.ErrInvalidAmount
	}

	var balance string
	err := r.db.QueryRow(ctx, `
		UPDATE patients
		SET balance = balance - $2::numeric
		WHERE id = $1
		  AND balance >= $2::numeric
		RETURNING balance::text
	`, id, amount.String()).Scan(&balance)
	if err == nil {
		return parseDecimal(balance)
	}
	if mapped := mapPgError(err, "debit patient balance"); !errors.Is(mapped, errs.ErrNotFound) {
		return decimal.Zero, mapped
	}

	var exists bool
	err = r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return decimal.Zero, mapPgError(err, "check patient existence")
	}
	if !exists {
		return decimal.Zero, errs.ErrNotFound
	}
	return decimal.Zero, errs.ErrInsufficientFunds
}

func (r *PatientRepository) Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, errs.ErrInvalidAmount
	}

	var balance string
	err := r.db.QueryRow(ctx, `
		UPDATE patients
		SET balance = balance + $2::numeric
		WHERE id = $1
		RETURNING balance::text
	`, id, amount.String()).Scan(&balance)
	if err != nil {
		return decimal.Zero, mapPgError(err, "credit patient balance")
	}
	return parseDecimal(balance)
}

var _ shared.PatientRepository = (*PatientRepository)(nil)
