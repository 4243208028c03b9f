package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

type AppointmentRepository struct {
	db Querier
}

func NewAppointmentRepository(db Querier) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = `
	id, appointment_no, patient_id, doctor_id, department_id, schedule_id,
	visit_date, time_slot, fee::text, queue_no, status, is_paid, created_at, updated_at
`

func scanAppointment(row pgx.Row) (*shared.Appointment, error) {
	var a shared.Appointment
	var fee string

	err := row.Scan(
		&a.ID,
		&a.AppointmentNo,
		&a.PatientID,
		&a.DoctorID,
		&a.DepartmentID,
		&a.ScheduleID,
		&a.VisitDate,
		&a.TimeSlot,
		&fee,
		&a.QueueNo,
		&a.Status,
		&a.IsPaid,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "scan appointment")
	}

	if a.Fee, err = parseDecimal(fee); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, a *shared.Appointment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (
			id, appointment_no, patient_id, doctor_id, department_id, schedule_id,
			visit_date, time_slot, fee, queue_no, status, is_paid, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10, $11, $12, now(), now())
	`, a.ID, a.AppointmentNo, a.PatientID, a.DoctorID, a.DepartmentID, a.ScheduleID,
		a.VisitDate, a.TimeSlot, a.Fee.String(), a.QueueNo, a.Status, a.IsPaid)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_appointments_live" {
			return errs.ErrAlreadyReserved
		}
		return mapPgError(err, "insert appointment")
	}
	return nil
}

// FindByID locks the row. Appointments are always loaded first inside an
// atomic unit, before any schedule or account row.
func (r *AppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id)
	return scanAppointment(row)
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
	`, id, to, from)
	if err != nil {
		return mapPgError(err, "update appointment status")
	}
	if tag.RowsAffected() == 0 {
		return r.missOrStale(ctx, id)
	}
	return nil
}

func (r *AppointmentRepository) SetPaid(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET is_paid = TRUE,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return mapPgError(err, "mark appointment paid")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) HasLive(ctx context.Context, patientID, scheduleID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM appointments
			WHERE patient_id = $1
			  AND schedule_id = $2
			  AND status IN ($3, $4)
		)
	`, patientID, scheduleID, reservation.AppointmentPending, reservation.AppointmentVisited).Scan(&exists)
	if err != nil {
		return false, mapPgError(err, "check live appointment")
	}
	return exists, nil
}

// missOrStale turns a zero-row compare-and-set into the right sentinel.
func (r *AppointmentRepository) missOrStale(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return mapPgError(err, "check appointment existence")
	}
	if !exists {
		return errs.ErrNotFound
	}
	return errs.ErrInvalidTransition
}

var _ shared.AppointmentRepository = (*AppointmentRepository)(nil)
