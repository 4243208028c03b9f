package readstore

import (
	"context"

	"github.com/google/uuid"

	"hospital-ops/internal/infra/repository"
	"hospital-ops/internal/usecase/queries"
)

type PatientReadStore struct {
	db repository.Querier
}

func NewPatientReadStore(db repository.Querier) *PatientReadStore {
	return &PatientReadStore{db: db}
}

func (r *PatientReadStore) Balance(ctx context.Context, patientID uuid.UUID) (*queries.BalanceView, error) {
	var balance string
	err := r.db.QueryRow(ctx, `
		SELECT balance::text
		FROM patients
		WHERE id = $1
	`, patientID).Scan(&balance)
	if err != nil {
		return nil, mapReadErr(err, "query patient balance")
	}

	b, err := parseDecimal(balance)
	if err != nil {
		return nil, err
	}
	return &queries.BalanceView{PatientID: patientID, Balance: b}, nil
}

var _ queries.PatientQueries = (*PatientReadStore)(nil)
