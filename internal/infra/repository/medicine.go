package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

// MedicineRepository doubles as the stock side of the capacity ledger.
type MedicineRepository struct {
	db Querier
}

func NewMedicineRepository(db Querier) *MedicineRepository {
	return &MedicineRepository{db: db}
}

func scanMedicine(row pgx.Row) (*shared.Medicine, error) {
	var m shared.Medicine
	var price string

	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Spec,
		&m.Unit,
		&price,
		&m.Stock,
		&m.Active,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "scan medicine")
	}

	if m.Price, err = parseDecimal(price); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MedicineRepository) Create(ctx context.Context, m *shared.Medicine) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO medicines (id, name, spec, unit, price, stock, active, created_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, now())
	`, m.ID, m.Name, m.Spec, m.Unit, m.Price.String(), m.Stock, m.Active)
	if err != nil {
		return mapPgError(err, "insert medicine")
	}
	return nil
}

func (r *MedicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.Medicine, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, spec, unit, price::text, stock, active, created_at
		FROM medicines
		WHERE id = $1
	`, id)
	return scanMedicine(row)
}

// FindByIDs fails with ErrNotFound when any requested medicine is missing so
// a prescription never silently drops a line.
func (r *MedicineRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.Medicine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, spec, unit, price::text, stock, active, created_at
		FROM medicines
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, mapPgError(err, "query medicines")
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]shared.Medicine, len(ids))
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		byID[m.ID] = *m
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate medicines")
	}

	out := make([]shared.Medicine, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, errs.ErrNotFound
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *MedicineRepository) Consume(ctx context.Context, id uuid.UUID, qty int64) error {
	if qty <= 0 {
		return errs.ErrInvalidAmount
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE medicines
		SET stock = stock - $2
		WHERE id = $1
		  AND stock >= $2
	`, id, qty)
	if err != nil {
		return mapPgError(err, "consume medicine stock")
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM medicines WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return mapPgError(err, "check medicine existence")
		}
		if !exists {
			return errs.ErrNotFound
		}
		return errs.ErrInsufficientStock
	}
	return nil
}

func (r *MedicineRepository) Restore(ctx context.Context, id uuid.UUID, qty int64) error {
	if qty <= 0 {
		return errs.ErrInvalidAmount
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE medicines
		SET stock = stock + $2
		WHERE id = $1
	`, id, qty)
	if err != nil {
		return mapPgError(err, "restore medicine stock")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

var _ shared.MedicineRepository = (*MedicineRepository)(nil)
