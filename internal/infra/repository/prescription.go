package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

type PrescriptionRepository struct {
	db Querier
}

func NewPrescriptionRepository(db Querier) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

func scanPrescription(row pgx.Row) (*shared.Prescription, error) {
	var p shared.Prescription
	var total string

	err := row.Scan(
		&p.ID,
		&p.PrescriptionNo,
		&p.MedicalRecordID,
		&p.PatientID,
		&p.DoctorID,
		&total,
		&p.Status,
		&p.IsPaid,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "scan prescription")
	}

	if p.TotalAmount, err = parseDecimal(total); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PrescriptionRepository) Create(ctx context.Context, p *shared.Prescription) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO prescriptions (
			id, prescription_no, medical_record_id, patient_id, doctor_id,
			total_amount, status, is_paid, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, now(), now())
	`, p.ID, p.PrescriptionNo, p.MedicalRecordID, p.PatientID, p.DoctorID,
		p.TotalAmount.String(), p.Status, p.IsPaid)
	if err != nil {
		return mapPgError(err, "insert prescription")
	}

	for i := range p.Items {
		it := &p.Items[i]
		_, err := r.db.Exec(ctx, `
			INSERT INTO prescription_items (
				id, prescription_id, medicine_id, quantity, dosage, unit_price, subtotal
			)
			VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric)
		`, it.ID, p.ID, it.MedicineID, it.Quantity, it.Dosage,
			it.UnitPrice.String(), it.Subtotal.String())
		if err != nil {
			return mapPgError(err, "insert prescription item")
		}
	}
	return nil
}

func (r *PrescriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.Prescription, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, prescription_no, medical_record_id, patient_id, doctor_id,
		       total_amount::text, status, is_paid, created_at, updated_at
		FROM prescriptions
		WHERE id = $1
		FOR UPDATE
	`, id)

	p, err := scanPrescription(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, prescription_id, medicine_id, quantity, dosage,
		       unit_price::text, subtotal::text
		FROM prescription_items
		WHERE prescription_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, mapPgError(err, "query prescription items")
	}
	defer rows.Close()

	for rows.Next() {
		var it shared.PrescriptionItem
		var unitPrice, subtotal string
		if err := rows.Scan(&it.ID, &it.PrescriptionID, &it.MedicineID,
			&it.Quantity, &it.Dosage, &unitPrice, &subtotal); err != nil {
			return nil, mapPgError(err, "scan prescription item")
		}
		if it.UnitPrice, err = parseDecimal(unitPrice); err != nil {
			return nil, err
		}
		if it.Subtotal, err = parseDecimal(subtotal); err != nil {
			return nil, err
		}
		p.Items = append(p.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate prescription items")
	}

	return p, nil
}

func (r *PrescriptionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE prescriptions
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
	`, id, to, from)
	if err != nil {
		return mapPgError(err, "update prescription status")
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM prescriptions WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return mapPgError(err, "check prescription existence")
		}
		if !exists {
			return errs.ErrNotFound
		}
		return errs.ErrInvalidTransition
	}
	return nil
}

func (r *PrescriptionRepository) SetPaid(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE prescriptions
		SET is_paid = TRUE,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return mapPgError(err, "mark prescription paid")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

var _ shared.PrescriptionRepository = (*PrescriptionRepository)(nil)
