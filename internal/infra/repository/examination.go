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

type ExaminationRepository struct {
	db Querier
}

func NewExaminationRepository(db Querier) *ExaminationRepository {
	return &ExaminationRepository{db: db}
}

func scanExamination(row pgx.Row) (*shared.Examination, error) {
	var e shared.Examination
	var total string

	err := row.Scan(
		&e.ID,
		&e.ExamNo,
		&e.PatientID,
		&e.DoctorID,
		&e.ExamDate,
		&total,
		&e.Status,
		&e.IsPaid,
		&e.ReportAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "scan examination")
	}

	if e.TotalAmount, err = parseDecimal(total); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExaminationRepository) Create(ctx context.Context, e *shared.Examination) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO examinations (
			id, exam_no, patient_id, doctor_id, exam_date,
			total_amount, status, is_paid, report_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, now(), now())
	`, e.ID, e.ExamNo, e.PatientID, e.DoctorID, e.ExamDate,
		e.TotalAmount.String(), e.Status, e.IsPaid, e.ReportAt)
	if err != nil {
		return mapPgError(err, "insert examination")
	}

	for i := range e.Items {
		it := &e.Items[i]
		_, err := r.db.Exec(ctx, `
			INSERT INTO examination_items (
				id, examination_id, exam_item_id, result, status, checked_at
			)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, it.ID, e.ID, it.ExamItemID, it.Result, it.Status, it.CheckedAt)
		if err != nil {
			return mapPgError(err, "insert examination item")
		}
	}
	return nil
}

func (r *ExaminationRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.Examination, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, exam_no, patient_id, doctor_id, exam_date,
		       total_amount::text, status, is_paid, report_at, created_at, updated_at
		FROM examinations
		WHERE id = $1
		FOR UPDATE
	`, id)

	e, err := scanExamination(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, examination_id, exam_item_id, result, status, checked_at
		FROM examination_items
		WHERE examination_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, mapPgError(err, "query examination items")
	}
	defer rows.Close()

	for rows.Next() {
		var it shared.ExaminationItem
		if err := rows.Scan(&it.ID, &it.ExaminationID, &it.ExamItemID,
			&it.Result, &it.Status, &it.CheckedAt); err != nil {
			return nil, mapPgError(err, "scan examination item")
		}
		e.Items = append(e.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate examination items")
	}

	return e, nil
}

func (r *ExaminationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE examinations
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
	`, id, to, from)
	if err != nil {
		return mapPgError(err, "update examination status")
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM examinations WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return mapPgError(err, "check examination existence")
		}
		if !exists {
			return errs.ErrNotFound
		}
		return errs.ErrInvalidTransition
	}
	return nil
}

func (r *ExaminationRepository) SetPaid(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE examinations
		SET is_paid = TRUE,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return mapPgError(err, "mark examination paid")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ExaminationRepository) SetReportAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE examinations
		SET report_at = $2,
		    updated_at = now()
		WHERE id = $1
	`, id, at)
	if err != nil {
		return mapPgError(err, "set examination report time")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ExaminationRepository) RecordItemResult(ctx context.Context, examinationID, itemID uuid.UUID, result string, checkedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE examination_items
		SET result = $3,
		    status = $4,
		    checked_at = $5
		WHERE examination_id = $1
		  AND id = $2
	`, examinationID, itemID, result, reservation.ExamItemChecked, checkedAt)
	if err != nil {
		return mapPgError(err, "record examination item result")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ExaminationRepository) CountUnchecked(ctx context.Context, examinationID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT count(*)
		FROM examination_items
		WHERE examination_id = $1
		  AND status = $2
	`, examinationID, reservation.ExamItemUnchecked).Scan(&n)
	if err != nil {
		return 0, mapPgError(err, "count unchecked examination items")
	}
	return n, nil
}

var _ shared.ExaminationRepository = (*ExaminationRepository)(nil)
