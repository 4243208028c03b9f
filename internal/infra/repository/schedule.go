package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

// ScheduleRepository is the capacity ledger for doctor slots. Reserve and
// Release are guarded single-statement updates: the invariant
// 0 <= booked_count <= max_patients holds under any interleaving because the
// check and the increment share one row lock.
type ScheduleRepository struct {
	db Querier
}

func NewScheduleRepository(db Querier) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func scanSchedule(row pgx.Row) (*shared.Schedule, error) {
	var s shared.Schedule
	var fee string

	err := row.Scan(
		&s.ID,
		&s.DoctorID,
		&s.DepartmentID,
		&s.VisitDate,
		&s.TimeSlot,
		&fee,
		&s.MaxPatients,
		&s.BookedCount,
		&s.Active,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "scan schedule")
	}

	if s.Fee, err = parseDecimal(fee); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepository) Create(ctx context.Context, s *shared.Schedule) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO schedules (
			id, doctor_id, department_id, visit_date, time_slot,
			fee, max_patients, booked_count, active, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, now())
	`, s.ID, s.DoctorID, s.DepartmentID, s.VisitDate, s.TimeSlot,
		s.Fee.String(), s.MaxPatients, s.BookedCount, s.Active)
	if err != nil {
		return mapPgError(err, "insert schedule")
	}
	return nil
}

// FindByID locks the slot row. Booking reads the schedule before checking for
// an existing live appointment, so without the lock two units for the same
// patient could both pass that check; holding the row serializes bookings per
// schedule.
func (r *ScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.Schedule, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, doctor_id, department_id, visit_date, time_slot,
		       fee::text, max_patients, booked_count, active, created_at
		FROM schedules
		WHERE id = $1
		FOR UPDATE
	`, id)
	return scanSchedule(row)
}

// Reserve returns the claimant's 1-based queue position.
func (r *ScheduleRepository) Reserve(ctx context.Context, id uuid.UUID) (int32, error) {
	var booked int32
	err := r.db.QueryRow(ctx, `
		UPDATE schedules
		SET booked_count = booked_count + 1
		WHERE id = $1
		  AND active
		  AND booked_count < max_patients
		RETURNING booked_count
	`, id).Scan(&booked)
	if err == nil {
		return booked, nil
	}
	if mapped := mapPgError(err, "reserve schedule slot"); !errors.Is(mapped, errs.ErrNotFound) {
		return 0, mapped
	}

	// The guard rejected the row: figure out which condition failed.
	var active bool
	err = r.db.QueryRow(ctx,
		`SELECT active FROM schedules WHERE id = $1`, id).Scan(&active)
	if err != nil {
		return 0, mapPgError(err, "inspect schedule after rejected reserve")
	}
	if !active {
		return 0, errs.ErrInactive
	}
	return 0, errs.ErrCapacityExceeded
}

func (r *ScheduleRepository) Release(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE schedules
		SET booked_count = booked_count - 1
		WHERE id = $1
		  AND booked_count > 0
	`, id)
	if err != nil {
		return mapPgError(err, "release schedule slot")
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schedules WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return mapPgError(err, "check schedule existence")
		}
		if !exists {
			return errs.ErrNotFound
		}
		return errs.ErrUnderflow
	}
	return nil
}

// SetActive refuses to deactivate a slot that still carries live bookings.
func (r *ScheduleRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE schedules
		SET active = $2
		WHERE id = $1
		  AND ($2 OR booked_count = 0)
	`, id, active)
	if err != nil {
		return mapPgError(err, "set schedule active")
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schedules WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return mapPgError(err, "check schedule existence")
		}
		if !exists {
			return errs.ErrNotFound
		}
		return errs.ErrScheduleHasBookings
	}
	return nil
}

var _ shared.ScheduleRepository = (*ScheduleRepository)(nil)
