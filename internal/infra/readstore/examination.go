package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/infra/repository"
	"hospital-ops/internal/usecase/queries"
)

type ExaminationReadStore struct {
	db repository.Querier
}

func NewExaminationReadStore(db repository.Querier) *ExaminationReadStore {
	return &ExaminationReadStore{db: db}
}

const examinationViewSelect = `
	SELECT e.id, e.exam_no, e.patient_id, e.doctor_id, e.exam_date,
	       e.total_amount::text, e.status, e.is_paid, e.report_at, e.created_at
	FROM examinations e
`

func scanExaminationView(row pgx.Row) (*queries.ExaminationView, error) {
	var v queries.ExaminationView
	var total string

	err := row.Scan(
		&v.ID,
		&v.ExamNo,
		&v.PatientID,
		&v.DoctorID,
		&v.ExamDate,
		&total,
		&v.Status,
		&v.IsPaid,
		&v.ReportAt,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, mapReadErr(err, "scan examination view")
	}
	if v.TotalAmount, err = parseDecimal(total); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ExaminationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ExaminationView, error) {
	row := r.db.QueryRow(ctx, examinationViewSelect+` WHERE e.id = $1`, id)
	v, err := scanExaminationView(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *ExaminationReadStore) ListByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.ExaminationView, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, examinationViewSelect+`
		WHERE e.patient_id = $1
		ORDER BY e.created_at DESC, e.id
		LIMIT $2 OFFSET $3
	`, patientID, page.Limit(), page.Offset())
	if err != nil {
		return nil, mapReadErr(err, "list examinations")
	}
	defer rows.Close()

	var result []*queries.ExaminationView
	for rows.Next() {
		v, err := scanExaminationView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr(err, "iterate examinations")
	}

	for _, v := range result {
		if err := r.loadItems(ctx, v); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *ExaminationReadStore) loadItems(ctx context.Context, v *queries.ExaminationView) error {
	rows, err := r.db.Query(ctx, `
		SELECT i.id, i.exam_item_id, def.name, i.result, i.status, i.checked_at
		FROM examination_items i
		JOIN exam_items def ON def.id = i.exam_item_id
		WHERE i.examination_id = $1
		ORDER BY i.id
	`, v.ID)
	if err != nil {
		return mapReadErr(err, "query examination items")
	}
	defer rows.Close()

	for rows.Next() {
		var it queries.ExaminationItemView
		if err := rows.Scan(&it.ID, &it.ExamItemID, &it.ItemName,
			&it.Result, &it.Status, &it.CheckedAt); err != nil {
			return mapReadErr(err, "scan examination item view")
		}
		v.Items = append(v.Items, it)
	}
	return rows.Err()
}

var _ queries.ExaminationQueries = (*ExaminationReadStore)(nil)
