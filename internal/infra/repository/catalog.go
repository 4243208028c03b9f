package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

// Catalog repositories: doctors, departments, exam item definitions, admins.
// These rows change rarely and are never part of a capacity or balance guard.

type DoctorRepository struct {
	db Querier
}

func NewDoctorRepository(db Querier) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func scanDoctor(row pgx.Row) (*shared.Doctor, error) {
	var d shared.Doctor
	err := row.Scan(
		&d.ID,
		&d.Username,
		&d.PasswordHash,
		&d.Name,
		&d.Title,
		&d.DepartmentID,
		&d.Active,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "scan doctor")
	}
	return &d, nil
}

func (r *DoctorRepository) Create(ctx context.Context, d *shared.Doctor) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO doctors (id, username, password_hash, name, title, department_id, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`, d.ID, d.Username, d.PasswordHash, d.Name, d.Title, d.DepartmentID, d.Active)
	if err != nil {
		return mapPgError(err, "insert doctor")
	}
	return nil
}

func (r *DoctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.Doctor, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, name, title, department_id, active, created_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *DoctorRepository) FindByUsername(ctx context.Context, username string) (*shared.Doctor, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, name, title, department_id, active, created_at
		FROM doctors
		WHERE username = $1
	`, username)
	return scanDoctor(row)
}

var _ shared.DoctorRepository = (*DoctorRepository)(nil)

type DepartmentRepository struct {
	db Querier
}

func NewDepartmentRepository(db Querier) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *shared.Department) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO departments (id, name, description, created_at)
		VALUES ($1, $2, $3, now())
	`, d.ID, d.Name, d.Description)
	if err != nil {
		return mapPgError(err, "insert department")
	}
	return nil
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.Department, error) {
	var d shared.Department
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, created_at
		FROM departments
		WHERE id = $1
	`, id).Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt)
	if err != nil {
		return nil, mapPgError(err, "scan department")
	}
	return &d, nil
}

var _ shared.DepartmentRepository = (*DepartmentRepository)(nil)

type ExamItemRepository struct {
	db Querier
}

func NewExamItemRepository(db Querier) *ExamItemRepository {
	return &ExamItemRepository{db: db}
}

func (r *ExamItemRepository) Create(ctx context.Context, def *shared.ExamItemDef) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO exam_items (id, name, price, description, active, created_at)
		VALUES ($1, $2, $3::numeric, $4, $5, now())
	`, def.ID, def.Name, def.Price.String(), def.Description, def.Active)
	if err != nil {
		return mapPgError(err, "insert exam item")
	}
	return nil
}

// FindByIDs mirrors MedicineRepository.FindByIDs: any missing id fails the
// whole lookup.
func (r *ExamItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.ExamItemDef, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, price::text, description, active, created_at
		FROM exam_items
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, mapPgError(err, "query exam items")
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]shared.ExamItemDef, len(ids))
	for rows.Next() {
		var def shared.ExamItemDef
		var price string
		if err := rows.Scan(&def.ID, &def.Name, &price, &def.Description,
			&def.Active, &def.CreatedAt); err != nil {
			return nil, mapPgError(err, "scan exam item")
		}
		if def.Price, err = parseDecimal(price); err != nil {
			return nil, err
		}
		byID[def.ID] = def
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate exam items")
	}

	out := make([]shared.ExamItemDef, 0, len(ids))
	for _, id := range ids {
		def, ok := byID[id]
		if !ok {
			return nil, errs.ErrNotFound
		}
		out = append(out, def)
	}
	return out, nil
}

var _ shared.ExamItemRepository = (*ExamItemRepository)(nil)

type AdminRepository struct {
	db Querier
}

func NewAdminRepository(db Querier) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, a *shared.Admin) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO admins (id, username, password_hash, name, created_at)
		VALUES ($1, $2, $3, $4, now())
	`, a.ID, a.Username, a.PasswordHash, a.Name)
	if err != nil {
		return mapPgError(err, "insert admin")
	}
	return nil
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*shared.Admin, error) {
	var a shared.Admin
	err := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, name, created_at
		FROM admins
		WHERE username = $1
	`, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Name, &a.CreatedAt)
	if err != nil {
		return nil, mapPgError(err, "scan admin")
	}
	return &a, nil
}

var _ shared.AdminRepository = (*AdminRepository)(nil)
