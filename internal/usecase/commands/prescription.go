package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/pkg/clock"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/pkg/refno"
	"hospital-ops/internal/usecase/shared"
)

type PrescriptionLine struct {
	MedicineID uuid.UUID
	Quantity   int64
	Dosage     string
}

type PrescriptionCommands interface {
	CreatePrescription(ctx context.Context, recordID uuid.UUID, lines []PrescriptionLine, actor shared.Actor) (*shared.Prescription, error)
	CancelPrescription(ctx context.Context, id uuid.UUID, actor shared.Actor) error
	Dispense(ctx context.Context, id uuid.UUID, actor shared.Actor) error
}

type prescriptionCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPrescriptionCommands(uow shared.UnitOfWork, clock clock.Clock) PrescriptionCommands {
	return &prescriptionCommandsImpl{uow: uow, clock: clock}
}

// CreatePrescription consumes stock for every line at creation time. A single
// short line pushes the whole unit back, leaving all stock untouched.
func (c *prescriptionCommandsImpl) CreatePrescription(ctx context.Context, recordID uuid.UUID, lines []PrescriptionLine, actor shared.Actor) (*shared.Prescription, error) {
	if !actor.IsDoctor() {
		return nil, errs.ErrForbidden
	}
	if len(lines) == 0 {
		return nil, errs.ErrInvalidAmount
	}

	var created *shared.Prescription
	err := withRefNoRetry(refno.MaxAttempts, func() error {
		no := refno.New(refno.PrefixPrescription, c.clock.Now())

		return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			record, err := tx.Records().FindByID(ctx, recordID)
			if err != nil {
				return err
			}
			if record.DoctorID != actor.ID {
				return errs.ErrForbidden
			}

			ids := make([]uuid.UUID, len(lines))
			for i, l := range lines {
				ids[i] = l.MedicineID
			}
			medicines, err := tx.Medicines().FindByIDs(ctx, ids)
			if err != nil {
				return err
			}

			now := c.clock.Now()
			p := &shared.Prescription{
				ID:              uuid.New(),
				PrescriptionNo:  no,
				MedicalRecordID: record.ID,
				PatientID:       record.PatientID,
				DoctorID:        actor.ID,
				Status:          reservation.PrescriptionUnpaid,
				CreatedAt:       now,
				UpdatedAt:       now,
			}

			total := decimal.Zero
			for i, l := range lines {
				med := medicines[i]
				if !med.Active {
					return errs.ErrInactive
				}
				if err := tx.Medicines().Consume(ctx, med.ID, l.Quantity); err != nil {
					return err
				}

				subtotal := med.Price.Mul(decimal.NewFromInt(l.Quantity))
				total = total.Add(subtotal)
				p.Items = append(p.Items, shared.PrescriptionItem{
					ID:             uuid.New(),
					PrescriptionID: p.ID,
					MedicineID:     med.ID,
					Quantity:       l.Quantity,
					Dosage:         l.Dosage,
					UnitPrice:      med.Price,
					Subtotal:       subtotal,
				})
			}
			p.TotalAmount = total

			if err := tx.Prescriptions().Create(ctx, p); err != nil {
				return err
			}
			created = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CancelPrescription is only legal from unpaid and restores every line's stock.
func (c *prescriptionCommandsImpl) CancelPrescription(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := tx.Prescriptions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if actor.IsPatient() && p.PatientID != actor.ID {
			return errs.ErrForbidden
		}

		if err := reservation.Transition(reservation.KindPrescription, p.Status, reservation.PrescriptionCancelled); err != nil {
			return err
		}
		if err := tx.Prescriptions().UpdateStatus(ctx, id, p.Status, reservation.PrescriptionCancelled); err != nil {
			return err
		}

		for _, it := range p.Items {
			if err := tx.Medicines().Restore(ctx, it.MedicineID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *prescriptionCommandsImpl) Dispense(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	if actor.IsPatient() {
		return errs.ErrForbidden
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := tx.Prescriptions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := reservation.Transition(reservation.KindPrescription, p.Status, reservation.PrescriptionDispensed); err != nil {
			return err
		}
		return tx.Prescriptions().UpdateStatus(ctx, id, p.Status, reservation.PrescriptionDispensed)
	})
}
