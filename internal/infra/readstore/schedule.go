// Package readstore implements the read-side query ports with plain pgx SQL
// against the pool. Listings are advisory; nothing here takes row locks.
package readstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/infra/repository"
	"hospital-ops/internal/usecase/queries"
)

type ScheduleReadStore struct {
	db repository.Querier
}

func NewScheduleReadStore(db repository.Querier) *ScheduleReadStore {
	return &ScheduleReadStore{db: db}
}

const scheduleViewSelect = `
	SELECT s.id, s.doctor_id, d.name, s.department_id, dep.name,
	       s.visit_date, s.time_slot, s.fee::text, s.max_patients, s.booked_count,
	       s.max_patients - s.booked_count AS available, s.active
	FROM schedules s
	JOIN doctors d ON d.id = s.doctor_id
	JOIN departments dep ON dep.id = s.department_id
`

func scanScheduleView(row pgx.Row) (*queries.ScheduleView, error) {
	var v queries.ScheduleView
	var fee string

	err := row.Scan(
		&v.ID,
		&v.DoctorID,
		&v.DoctorName,
		&v.DepartmentID,
		&v.DepartmentName,
		&v.VisitDate,
		&v.TimeSlot,
		&fee,
		&v.MaxPatients,
		&v.BookedCount,
		&v.Available,
		&v.Active,
	)
	if err != nil {
		return nil, mapReadErr(err, "scan schedule view")
	}
	if v.Fee, err = parseDecimal(fee); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ScheduleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ScheduleView, error) {
	row := r.db.QueryRow(ctx, scheduleViewSelect+` WHERE s.id = $1`, id)
	return scanScheduleView(row)
}

// List returns every matching slot, full ones included; `available` tells the
// caller how much room is left.
func (r *ScheduleReadStore) List(ctx context.Context, departmentID *uuid.UUID, visitDate *time.Time, page queries.Page) ([]*queries.ScheduleView, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, scheduleViewSelect+`
		WHERE ($1::uuid IS NULL OR s.department_id = $1)
		  AND ($2::date IS NULL OR s.visit_date = $2)
		ORDER BY s.visit_date, s.time_slot, s.id
		LIMIT $3 OFFSET $4
	`, departmentID, visitDate, page.Limit(), page.Offset())
	if err != nil {
		return nil, mapReadErr(err, "list schedules")
	}
	defer rows.Close()

	var result []*queries.ScheduleView
	for rows.Next() {
		v, err := scanScheduleView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr(err, "iterate schedules")
	}
	return result, nil
}

var _ queries.ScheduleQueries = (*ScheduleReadStore)(nil)
