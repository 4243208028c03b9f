package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/infra/repository"
	"hospital-ops/internal/usecase/queries"
)

type AppointmentReadStore struct {
	db repository.Querier
}

func NewAppointmentReadStore(db repository.Querier) *AppointmentReadStore {
	return &AppointmentReadStore{db: db}
}

const appointmentViewSelect = `
	SELECT a.id, a.appointment_no, a.patient_id, p.name, a.doctor_id, d.name,
	       a.department_id, a.schedule_id, a.visit_date, a.time_slot,
	       a.fee::text, a.queue_no, a.status, a.is_paid, a.created_at
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id
`

func scanAppointmentView(row pgx.Row) (*queries.AppointmentView, error) {
	var v queries.AppointmentView
	var fee string

	err := row.Scan(
		&v.ID,
		&v.AppointmentNo,
		&v.PatientID,
		&v.PatientName,
		&v.DoctorID,
		&v.DoctorName,
		&v.DepartmentID,
		&v.ScheduleID,
		&v.VisitDate,
		&v.TimeSlot,
		&fee,
		&v.QueueNo,
		&v.Status,
		&v.IsPaid,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, mapReadErr(err, "scan appointment view")
	}
	if v.Fee, err = parseDecimal(fee); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *AppointmentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	row := r.db.QueryRow(ctx, appointmentViewSelect+` WHERE a.id = $1`, id)
	return scanAppointmentView(row)
}

func (r *AppointmentReadStore) ListByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.AppointmentView, error) {
	return r.list(ctx, `a.patient_id`, patientID, page)
}

func (r *AppointmentReadStore) ListByDoctor(ctx context.Context, doctorID uuid.UUID, page queries.Page) ([]*queries.AppointmentView, error) {
	return r.list(ctx, `a.doctor_id`, doctorID, page)
}

func (r *AppointmentReadStore) list(ctx context.Context, ownerColumn string, ownerID uuid.UUID, page queries.Page) ([]*queries.AppointmentView, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, appointmentViewSelect+`
		WHERE `+ownerColumn+` = $1
		ORDER BY a.created_at DESC, a.id
		LIMIT $2 OFFSET $3
	`, ownerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, mapReadErr(err, "list appointments")
	}
	defer rows.Close()

	var result []*queries.AppointmentView
	for rows.Next() {
		v, err := scanAppointmentView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr(err, "iterate appointments")
	}
	return result, nil
}

var _ queries.AppointmentQueries = (*AppointmentReadStore)(nil)
