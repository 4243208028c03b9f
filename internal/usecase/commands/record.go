package commands

import (
	"context"

	"github.com/google/uuid"

	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/pkg/clock"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

type MedicalRecordCommands interface {
	CreateMedicalRecord(ctx context.Context, appointmentID uuid.UUID, diagnosis, advice string, actor shared.Actor) (*shared.MedicalRecord, error)
	UpdateMedicalRecord(ctx context.Context, id uuid.UUID, diagnosis, advice string, actor shared.Actor) error
}

type medicalRecordCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewMedicalRecordCommands(uow shared.UnitOfWork, clock clock.Clock) MedicalRecordCommands {
	return &medicalRecordCommandsImpl{uow: uow, clock: clock}
}

// CreateMedicalRecord writes the visit record and marks the appointment
// visited in the same unit. Only the appointment's own doctor may write it.
func (c *medicalRecordCommandsImpl) CreateMedicalRecord(ctx context.Context, appointmentID uuid.UUID, diagnosis, advice string, actor shared.Actor) (*shared.MedicalRecord, error) {
	if !actor.IsDoctor() {
		return nil, errs.ErrForbidden
	}

	var created *shared.MedicalRecord
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		a, err := tx.Appointments().FindByID(ctx, appointmentID)
		if err != nil {
			return err
		}
		if a.DoctorID != actor.ID {
			return errs.ErrForbidden
		}

		if err := reservation.Transition(reservation.KindAppointment, a.Status, reservation.AppointmentVisited); err != nil {
			return err
		}
		if err := tx.Appointments().UpdateStatus(ctx, appointmentID, a.Status, reservation.AppointmentVisited); err != nil {
			return err
		}

		now := c.clock.Now()
		rec := &shared.MedicalRecord{
			ID:            uuid.New(),
			AppointmentID: a.ID,
			PatientID:     a.PatientID,
			DoctorID:      actor.ID,
			Diagnosis:     diagnosis,
			Advice:        advice,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Records().Create(ctx, rec); err != nil {
			return err
		}
		created = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *medicalRecordCommandsImpl) UpdateMedicalRecord(ctx context.Context, id uuid.UUID, diagnosis, advice string, actor shared.Actor) error {
	if !actor.IsDoctor() {
		return errs.ErrForbidden
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Records().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if rec.DoctorID != actor.ID {
			return errs.ErrForbidden
		}
		return tx.Records().Update(ctx, id, diagnosis, advice)
	})
}
