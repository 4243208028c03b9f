package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

type MedicalRecordRepository struct {
	db Querier
}

func NewMedicalRecordRepository(db Querier) *MedicalRecordRepository {
	return &MedicalRecordRepository{db: db}
}

func scanMedicalRecord(row pgx.Row) (*shared.MedicalRecord, error) {
	var rec shared.MedicalRecord

	err := row.Scan(
		&rec.ID,
		&rec.AppointmentID,
		&rec.PatientID,
		&rec.DoctorID,
		&rec.Diagnosis,
		&rec.Advice,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "scan medical record")
	}
	return &rec, nil
}

func (r *MedicalRecordRepository) Create(ctx context.Context, rec *shared.MedicalRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO medical_records (
			id, appointment_id, patient_id, doctor_id, diagnosis, advice, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	`, rec.ID, rec.AppointmentID, rec.PatientID, rec.DoctorID, rec.Diagnosis, rec.Advice)
	if err != nil {
		return mapPgError(err, "insert medical record")
	}
	return nil
}

func (r *MedicalRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.MedicalRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, appointment_id, patient_id, doctor_id, diagnosis, advice, created_at, updated_at
		FROM medical_records
		WHERE id = $1
	`, id)
	return scanMedicalRecord(row)
}

func (r *MedicalRecordRepository) Update(ctx context.Context, id uuid.UUID, diagnosis, advice string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE medical_records
		SET diagnosis = $2,
		    advice = $3,
		    updated_at = now()
		WHERE id = $1
	`, id, diagnosis, advice)
	if err != nil {
		return mapPgError(err, "update medical record")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

var _ shared.MedicalRecordRepository = (*MedicalRecordRepository)(nil)
