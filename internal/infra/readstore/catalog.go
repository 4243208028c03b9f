package readstore

import (
	"context"

	"github.com/google/uuid"

	"hospital-ops/internal/infra/repository"
	"hospital-ops/internal/usecase/queries"
)

type CatalogReadStore struct {
	db repository.Querier
}

func NewCatalogReadStore(db repository.Querier) *CatalogReadStore {
	return &CatalogReadStore{db: db}
}

func (r *CatalogReadStore) ListDepartments(ctx context.Context, page queries.Page) ([]*queries.DepartmentView, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, description
		FROM departments
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, mapReadErr(err, "list departments")
	}
	defer rows.Close()

	var result []*queries.DepartmentView
	for rows.Next() {
		var v queries.DepartmentView
		if err := rows.Scan(&v.ID, &v.Name, &v.Description); err != nil {
			return nil, mapReadErr(err, "scan department view")
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr(err, "iterate departments")
	}
	return result, nil
}

func (r *CatalogReadStore) ListDoctors(ctx context.Context, departmentID *uuid.UUID, page queries.Page) ([]*queries.DoctorView, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, `
		SELECT d.id, d.name, d.title, d.department_id, dep.name, d.active
		FROM doctors d
		JOIN departments dep ON dep.id = d.department_id
		WHERE ($1::uuid IS NULL OR d.department_id = $1)
		ORDER BY d.name, d.id
		LIMIT $2 OFFSET $3
	`, departmentID, page.Limit(), page.Offset())
	if err != nil {
		return nil, mapReadErr(err, "list doctors")
	}
	defer rows.Close()

	var result []*queries.DoctorView
	for rows.Next() {
		var v queries.DoctorView
		if err := rows.Scan(&v.ID, &v.Name, &v.Title, &v.DepartmentID,
			&v.DepartmentName, &v.Active); err != nil {
			return nil, mapReadErr(err, "scan doctor view")
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr(err, "iterate doctors")
	}
	return result, nil
}

func (r *CatalogReadStore) ListMedicines(ctx context.Context, page queries.Page) ([]*queries.MedicineView, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, spec, unit, price::text, stock, active
		FROM medicines
		ORDER BY name, id
		LIMIT $1 OFFSET $2
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, mapReadErr(err, "list medicines")
	}
	defer rows.Close()

	var result []*queries.MedicineView
	for rows.Next() {
		var v queries.MedicineView
		var price string
		if err := rows.Scan(&v.ID, &v.Name, &v.Spec, &v.Unit, &price,
			&v.Stock, &v.Active); err != nil {
			return nil, mapReadErr(err, "scan medicine view")
		}
		if v.Price, err = parseDecimal(price); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr(err, "iterate medicines")
	}
	return result, nil
}

func (r *CatalogReadStore) ListExamItems(ctx context.Context, page queries.Page) ([]*queries.ExamItemView, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, price::text, description, active
		FROM exam_items
		ORDER BY name, id
		LIMIT $1 OFFSET $2
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, mapReadErr(err, "list exam items")
	}
	defer rows.Close()

	var result []*queries.ExamItemView
	for rows.Next() {
		var v queries.ExamItemView
		var price string
		if err := rows.Scan(&v.ID, &v.Name, &price, &v.Description, &v.Active); err != nil {
			return nil, mapReadErr(err, "scan exam item view")
		}
		if v.Price, err = parseDecimal(price); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr(err, "iterate exam items")
	}
	return result, nil
}

var _ queries.CatalogQueries = (*CatalogReadStore)(nil)
