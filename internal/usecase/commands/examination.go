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

type ExaminationCommands interface {
	CreateExamination(ctx context.Context, patientID uuid.UUID, examItemIDs []uuid.UUID, actor shared.Actor) (*shared.Examination, error)
	RecordExamResult(ctx context.Context, examID, itemID uuid.UUID, result string, actor shared.Actor) error
	CompleteExamination(ctx context.Context, examID uuid.UUID, actor shared.Actor) error
	CancelExamination(ctx context.Context, examID uuid.UUID, actor shared.Actor) error
}

type examinationCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewExaminationCommands(uow shared.UnitOfWork, clock clock.Clock) ExaminationCommands {
	return &examinationCommandsImpl{uow: uow, clock: clock}
}

func (c *examinationCommandsImpl) CreateExamination(ctx context.Context, patientID uuid.UUID, examItemIDs []uuid.UUID, actor shared.Actor) (*shared.Examination, error) {
	if !actor.IsDoctor() {
		return nil, errs.ErrForbidden
	}
	if len(examItemIDs) == 0 {
		return nil, errs.ErrInvalidAmount
	}

	var created *shared.Examination
	err := withRefNoRetry(refno.MaxAttempts, func() error {
		no := refno.New(refno.PrefixExamination, c.clock.Now())

		return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if _, err := tx.Patients().FindByID(ctx, patientID); err != nil {
				return err
			}

			defs, err := tx.ExamItems().FindByIDs(ctx, examItemIDs)
			if err != nil {
				return err
			}

			now := c.clock.Now()
			e := &shared.Examination{
				ID:        uuid.New(),
				ExamNo:    no,
				PatientID: patientID,
				DoctorID:  actor.ID,
				ExamDate:  now,
				Status:    reservation.ExaminationPendingPayment,
				CreatedAt: now,
				UpdatedAt: now,
			}

			total := decimal.Zero
			for _, def := range defs {
				if !def.Active {
					return errs.ErrInactive
				}
				total = total.Add(def.Price)
				e.Items = append(e.Items, shared.ExaminationItem{
					ID:            uuid.New(),
					ExaminationID: e.ID,
					ExamItemID:    def.ID,
					Status:        reservation.ExamItemUnchecked,
				})
			}
			e.TotalAmount = total

			if err := tx.Examinations().Create(ctx, e); err != nil {
				return err
			}
			created = e
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RecordExamResult checks one child item. Recording against a paid-pending
// examination advances the parent to in-progress in the same unit.
func (c *examinationCommandsImpl) RecordExamResult(ctx context.Context, examID, itemID uuid.UUID, result string, actor shared.Actor) error {
	if !actor.IsDoctor() {
		return errs.ErrForbidden
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Examinations().FindByID(ctx, examID)
		if err != nil {
			return err
		}

		switch e.Status {
		case reservation.ExaminationPaidPending:
			if err := tx.Examinations().UpdateStatus(ctx, examID, e.Status, reservation.ExaminationInProgress); err != nil {
				return err
			}
		case reservation.ExaminationInProgress:
			// already underway
		default:
			return errs.ErrInvalidTransition
		}

		return tx.Examinations().RecordItemResult(ctx, examID, itemID, result, c.clock.Now())
	})
}

// CompleteExamination requires every child item checked.
func (c *examinationCommandsImpl) CompleteExamination(ctx context.Context, examID uuid.UUID, actor shared.Actor) error {
	if !actor.IsDoctor() {
		return errs.ErrForbidden
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Examinations().FindByID(ctx, examID)
		if err != nil {
			return err
		}
		if err := reservation.Transition(reservation.KindExamination, e.Status, reservation.ExaminationCompleted); err != nil {
			return err
		}

		unchecked, err := tx.Examinations().CountUnchecked(ctx, examID)
		if err != nil {
			return err
		}
		if unchecked > 0 {
			return errs.ErrIncompleteChildren
		}

		if err := tx.Examinations().UpdateStatus(ctx, examID, e.Status, reservation.ExaminationCompleted); err != nil {
			return err
		}
		return tx.Examinations().SetReportAt(ctx, examID, c.clock.Now())
	})
}

func (c *examinationCommandsImpl) CancelExamination(ctx context.Context, examID uuid.UUID, actor shared.Actor) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Examinations().FindByID(ctx, examID)
		if err != nil {
			return err
		}
		if actor.IsPatient() && e.PatientID != actor.ID {
			return errs.ErrForbidden
		}

		if err := reservation.Transition(reservation.KindExamination, e.Status, reservation.ExaminationCancelled); err != nil {
			return err
		}
		return tx.Examinations().UpdateStatus(ctx, examID, e.Status, reservation.ExaminationCancelled)
	})
}
