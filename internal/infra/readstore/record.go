package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/infra/repository"
	"hospital-ops/internal/usecase/queries"
)

type MedicalRecordReadStore struct {
	db repository.Querier
}

func NewMedicalRecordReadStore(db repository.Querier) *MedicalRecordReadStore {
	return &MedicalRecordReadStore{db: db}
}

const recordViewSelect = `
	SELECT r.id, r.appointment_id, r.patient_id, r.doctor_id, d.name,
	       r.diagnosis, r.advice, r.created_at
	FROM medical_records r
	JOIN doctors d ON d.id = r.doctor_id
`

func scanRecordView(row pgx.Row) (*queries.MedicalRecordView, error) {
	var v queries.MedicalRecordView
	err := row.Scan(
		&v.ID,
		&v.AppointmentID,
		&v.PatientID,
		&v.DoctorID,
		&v.DoctorName,
		&v.Diagnosis,
		&v.Advice,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, mapReadErr(err, "scan medical record view")
	}
	return &v, nil
}

func (r *MedicalRecordReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.MedicalRecordView, error) {
	row := r.db.QueryRow(ctx, recordViewSelect+` WHERE r.id = $1`, id)
	return scanRecordView(row)
}

func (r *MedicalRecordReadStore) ListByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.MedicalRecordView, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, recordViewSelect+`
		WHERE r.patient_id = $1
		ORDER BY r.created_at DESC, r.id
		LIMIT $2 OFFSET $3
	`, patientID, page.Limit(), page.Offset())
	if err != nil {
		return nil, mapReadErr(err, "list medical records")
	}
	defer rows.Close()

	var result []*queries.MedicalRecordView
	for rows.Next() {
		v, err := scanRecordView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr(err, "iterate medical records")
	}
	return result, nil
}

var _ queries.MedicalRecordQueries = (*MedicalRecordReadStore)(nil)
