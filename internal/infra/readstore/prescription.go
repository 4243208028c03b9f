package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hospital-ops/internal/infra/repository"
	"hospital-ops/internal/usecase/queries"
)

type PrescriptionReadStore struct {
	db repository.Querier
}

func NewPrescriptionReadStore(db repository.Querier) *PrescriptionReadStore {
	return &PrescriptionReadStore{db: db}
}

const prescriptionViewSelect = `
	SELECT p.id, p.prescription_no, p.patient_id, p.doctor_id, d.name,
	       p.total_amount::text, p.status, p.is_paid, p.created_at
	FROM prescriptions p
	JOIN doctors d ON d.id = p.doctor_id
`

func scanPrescriptionView(row pgx.Row) (*queries.PrescriptionView, error) {
	var v queries.PrescriptionView
	var total string

	err := row.Scan(
		&v.ID,
		&v.PrescriptionNo,
		&v.PatientID,
		&v.DoctorID,
		&v.DoctorName,
		&total,
		&v.Status,
		&v.IsPaid,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, mapReadErr(err, "scan prescription view")
	}
	if v.TotalAmount, err = parseDecimal(total); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PrescriptionReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PrescriptionView, error) {
	row := r.db.QueryRow(ctx, prescriptionViewSelect+` WHERE p.id = $1`, id)
	v, err := scanPrescriptionView(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *PrescriptionReadStore) ListByPatient(ctx context.Context, patientID uuid.UUID, page queries.Page) ([]*queries.PrescriptionView, error) {
	page = page.Normalize()

	rows, err := r.db.Query(ctx, prescriptionViewSelect+`
		WHERE p.patient_id = $1
		ORDER BY p.created_at DESC, p.id
		LIMIT $2 OFFSET $3
	`, patientID, page.Limit(), page.Offset())
	if err != nil {
		return nil, mapReadErr(err, "list prescriptions")
	}
	defer rows.Close()

	var result []*queries.PrescriptionView
	for rows.Next() {
		v, err := scanPrescriptionView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr(err, "iterate prescriptions")
	}

	for _, v := range result {
		if err := r.loadItems(ctx, v); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *PrescriptionReadStore) loadItems(ctx context.Context, v *queries.PrescriptionView) error {
	rows, err := r.db.Query(ctx, `
		SELECT i.id, i.medicine_id, m.name, i.quantity, i.dosage,
		       i.unit_price::text, i.subtotal::text
		FROM prescription_items i
		JOIN medicines m ON m.id = i.medicine_id
		WHERE i.prescription_id = $1
		ORDER BY i.id
	`, v.ID)
	if err != nil {
		return mapReadErr(err, "query prescription items")
	}
	defer rows.Close()

	for rows.Next() {
		var it queries.PrescriptionItemView
		var unitPrice, subtotal string
		if err := rows.Scan(&it.ID, &it.MedicineID, &it.MedicineName,
			&it.Quantity, &it.Dosage, &unitPrice, &subtotal); err != nil {
			return mapReadErr(err, "scan prescription item view")
		}
		if it.UnitPrice, err = parseDecimal(unitPrice); err != nil {
			return err
		}
		if it.Subtotal, err = parseDecimal(subtotal); err != nil {
			return err
		}
		v.Items = append(v.Items, it)
	}
	return rows.Err()
}

var _ queries.PrescriptionQueries = (*PrescriptionReadStore)(nil)
