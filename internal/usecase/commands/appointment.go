package commands

import (
	"context"

	"github.com/google/uuid"

	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/pkg/clock"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/pkg/refno"
	"hospital-ops/internal/usecase/shared"
)

type AppointmentCommands interface {
	ReserveSlot(ctx context.Context, scheduleID uuid.UUID, actor shared.Actor) (*shared.Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID, actor shared.Actor) error
}

type appointmentCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewAppointmentCommands(uow shared.UnitOfWork, clock clock.Clock) AppointmentCommands {
	return &appointmentCommandsImpl{uow: uow, clock: clock}
}

// ReserveSlot books one unit of a schedule's capacity and returns the created
// appointment carrying the caller's queue position. The capacity check, the
// duplicate-booking check and the insert commit or roll back together.
func (c *appointmentCommandsImpl) ReserveSlot(ctx context.Context, scheduleID uuid.UUID, actor shared.Actor) (*shared.Appointment, error) {
	if !actor.IsPatient() {
		return nil, errs.ErrForbidden
	}

	var created *shared.Appointment
	err := withRefNoRetry(refno.MaxAttempts, func() error {
		no := refno.New(refno.PrefixAppointment, c.clock.Now())

		return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			sched, err := tx.Schedules().FindByID(ctx, scheduleID)
			if err != nil {
				return err
			}

			live, err := tx.Appointments().HasLive(ctx, actor.ID, scheduleID)
			if err != nil {
				return err
			}
			if live {
				return errs.ErrAlreadyReserved
			}

			queueNo, err := tx.Schedules().Reserve(ctx, scheduleID)
			if err != nil {
				return err
			}

			now := c.clock.Now()
			a := &shared.Appointment{
				ID:            uuid.New(),
				AppointmentNo: no,
				PatientID:     actor.ID,
				DoctorID:      sched.DoctorID,
				DepartmentID:  sched.DepartmentID,
				ScheduleID:    sched.ID,
				VisitDate:     sched.VisitDate,
				TimeSlot:      sched.TimeSlot,
				Fee:           sched.Fee,
				QueueNo:       queueNo,
				Status:        reservation.AppointmentPending,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := tx.Appointments().Create(ctx, a); err != nil {
				return err
			}
			created = a
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CancelAppointment moves a pending appointment to cancelled and releases its
// slot unit in the same atomic unit.
func (c *appointmentCommandsImpl) CancelAppointment(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		a, err := tx.Appointments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if actor.IsPatient() && a.PatientID != actor.ID {
			return errs.ErrForbidden
		}

		if err := reservation.Transition(reservation.KindAppointment, a.Status, reservation.AppointmentCancelled); err != nil {
			return err
		}
		if err := tx.Appointments().UpdateStatus(ctx, id, a.Status, reservation.AppointmentCancelled); err != nil {
			return err
		}

		return tx.Schedules().Release(ctx, a.ScheduleID)
	})
}
