package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/pkg/clock"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/pkg/refno"
	"hospital-ops/internal/usecase/shared"
)

type PaymentCommands interface {
	CreatePayment(ctx context.Context, paymentType reservation.PaymentType, refID uuid.UUID, actor shared.Actor) (*shared.Payment, error)
	SettlePayment(ctx context.Context, id uuid.UUID, method reservation.PayMethod, actor shared.Actor) (*SettleResult, error)
	CancelPayment(ctx context.Context, id uuid.UUID, actor shared.Actor) error

	CreateRecharge(ctx context.Context, amount decimal.Decimal, actor shared.Actor) (*shared.Recharge, error)
	SettleRecharge(ctx context.Context, id uuid.UUID, method reservation.PayMethod, actor shared.Actor) (*SettleResult, error)
	CancelRecharge(ctx context.Context, id uuid.UUID, actor shared.Actor) error
}

// SettleResult reports the settled amount and, for balance movements, the
// account balance after the unit committed.
type SettleResult struct {
	Amount     decimal.Decimal
	NewBalance *decimal.Decimal
}

type paymentCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPaymentCommands(uow shared.UnitOfWork, clock clock.Clock) PaymentCommands {
	return &paymentCommandsImpl{uow: uow, clock: clock}
}

// CreatePayment opens a pending payment against an appointment, prescription
// or examination. The amount is taken from the funded record, never from the
// caller.
func (c *paymentCommandsImpl) CreatePayment(ctx context.Context, paymentType reservation.PaymentType, refID uuid.UUID, actor shared.Actor) (*shared.Payment, error) {
	kind, ok := paymentType.FundedKind()
	if !ok {
		return nil, errs.ErrInvalidAmount
	}

	var created *shared.Payment
	err := withRefNoRetry(refno.MaxAttempts, func() error {
		no := refno.New(refno.PrefixPayment, c.clock.Now())

		return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			patientID, amount, status, paid, err := loadFundedRecord(ctx, tx, kind, refID)
			if err != nil {
				return err
			}
			if actor.IsPatient() && patientID != actor.ID {
				return errs.ErrForbidden
			}
			if paid {
				return errs.ErrInvalidTransition
			}
			if !reservation.AcceptsSettlement(kind, status) {
				return errs.ErrStaleReference
			}

			p := &shared.Payment{
				ID:        uuid.New(),
				PaymentNo: no,
				PatientID: patientID,
				Type:      paymentType,
				RefID:     refID,
				Amount:    amount,
				PayMethod: reservation.PayMethodNone,
				Status:    reservation.PaymentPending,
				CreatedAt: c.clock.Now(),
			}
			if err := tx.Payments().Create(ctx, p); err != nil {
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

// SettlePayment settles a pending payment and marks its funded record paid in
// the same atomic unit. Balance settlements debit the account; a failed debit
// rolls the whole unit back, including the status flip.
//
// Lock order inside the unit: payment row, then funded record, then account.
func (c *paymentCommandsImpl) SettlePayment(ctx context.Context, id uuid.UUID, method reservation.PayMethod, actor shared.Actor) (*SettleResult, error) {
	if !method.IsValid() {
		return nil, errs.ErrInvalidAmount
	}

	var result SettleResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := tx.Payments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if actor.IsPatient() && p.PatientID != actor.ID {
			return errs.ErrForbidden
		}

		if err := tx.Payments().Settle(ctx, id, method, c.clock.Now()); err != nil {
			return err
		}

		kind, ok := p.Type.FundedKind()
		if !ok {
			return errs.ErrStaleReference
		}
		if err := markFundedRecordPaid(ctx, tx, kind, p.RefID); err != nil {
			return err
		}

		result.Amount = p.Amount
		if method.IsBalance() {
			balance, err := tx.Patients().Debit(ctx, p.PatientID, p.Amount)
			if err != nil {
				return err
			}
			result.NewBalance = &balance
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *paymentCommandsImpl) CancelPayment(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := tx.Payments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if actor.IsPatient() && p.PatientID != actor.ID {
			return errs.ErrForbidden
		}

		if err := reservation.Transition(reservation.KindPayment, p.Status, reservation.PaymentCancelled); err != nil {
			return err
		}
		return tx.Payments().UpdateStatus(ctx, id, p.Status, reservation.PaymentCancelled)
	})
}

func (c *paymentCommandsImpl) CreateRecharge(ctx context.Context, amount decimal.Decimal, actor shared.Actor) (*shared.Recharge, error) {
	if !actor.IsPatient() {
		return nil, errs.ErrForbidden
	}
	if amount.Sign() <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	var created *shared.Recharge
	err := withRefNoRetry(refno.MaxAttempts, func() error {
		no := refno.New(refno.PrefixRecharge, c.clock.Now())

		return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if _, err := tx.Patients().FindByID(ctx, actor.ID); err != nil {
				return err
			}

			rec := &shared.Recharge{
				ID:         uuid.New(),
				RechargeNo: no,
				PatientID:  actor.ID,
				Amount:     amount,
				PayMethod:  reservation.PayMethodNone,
				Status:     reservation.RechargePending,
				CreatedAt:  c.clock.Now(),
			}
			if err := tx.Recharges().Create(ctx, rec); err != nil {
				return err
			}
			created = rec
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SettleRecharge is an admin confirmation: it settles the recharge and credits
// the patient's balance in the same unit.
func (c *paymentCommandsImpl) SettleRecharge(ctx context.Context, id uuid.UUID, method reservation.PayMethod, actor shared.Actor) (*SettleResult, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	if !method.IsValid() || method.IsBalance() {
		return nil, errs.ErrInvalidAmount
	}

	var result SettleResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Recharges().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := tx.Recharges().Settle(ctx, id, method, c.clock.Now()); err != nil {
			return err
		}

		balance, err := tx.Patients().Credit(ctx, rec.PatientID, rec.Amount)
		if err != nil {
			return err
		}
		result.Amount = rec.Amount
		result.NewBalance = &balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *paymentCommandsImpl) CancelRecharge(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Recharges().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if actor.IsPatient() && rec.PatientID != actor.ID {
			return errs.ErrForbidden
		}

		if err := reservation.Transition(reservation.KindRecharge, rec.Status, reservation.RechargeCancelled); err != nil {
			return err
		}
		return tx.Recharges().UpdateStatus(ctx, id, rec.Status, reservation.RechargeCancelled)
	})
}

// loadFundedRecord resolves owner, due amount, lifecycle status and paid flag
// of the record a payment funds. A missing record surfaces as ErrStaleReference.
func loadFundedRecord(ctx context.Context, tx shared.Tx, kind reservation.Kind, refID uuid.UUID) (uuid.UUID, decimal.Decimal, reservation.Status, bool, error) {
	switch kind {
	case reservation.KindAppointment:
		a, err := tx.Appointments().FindByID(ctx, refID)
		if err != nil {
			return uuid.Nil, decimal.Zero, 0, false, staleIfMissing(err)
		}
		return a.PatientID, a.Fee, a.Status, a.IsPaid, nil
	case reservation.KindPrescription:
		p, err := tx.Prescriptions().FindByID(ctx, refID)
		if err != nil {
			return uuid.Nil, decimal.Zero, 0, false, staleIfMissing(err)
		}
		return p.PatientID, p.TotalAmount, p.Status, p.IsPaid, nil
	case reservation.KindExamination:
		e, err := tx.Examinations().FindByID(ctx, refID)
		if err != nil {
			return uuid.Nil, decimal.Zero, 0, false, staleIfMissing(err)
		}
		return e.PatientID, e.TotalAmount, e.Status, e.IsPaid, nil
	default:
		return uuid.Nil, decimal.Zero, 0, false, errs.ErrStaleReference
	}
}

// markFundedRecordPaid flips is_paid and, where the kind's lifecycle encodes
// payment, advances it: prescription unpaid to paid, examination
// pending-payment to paid-pending. An appointment keeps its status; only the
// paid flag moves. A funded record that no longer accepts settlement fails the
// whole unit with ErrStaleReference.
func markFundedRecordPaid(ctx context.Context, tx shared.Tx, kind reservation.Kind, refID uuid.UUID) error {
	settleable := func(status reservation.Status, paid bool) error {
		if paid {
			return errs.ErrInvalidTransition
		}
		if !reservation.AcceptsSettlement(kind, status) {
			return errs.ErrStaleReference
		}
		return nil
	}

	switch kind {
	case reservation.KindAppointment:
		a, err := tx.Appointments().FindByID(ctx, refID)
		if err != nil {
			return staleIfMissing(err)
		}
		if err := settleable(a.Status, a.IsPaid); err != nil {
			return err
		}
		return tx.Appointments().SetPaid(ctx, refID)

	case reservation.KindPrescription:
		p, err := tx.Prescriptions().FindByID(ctx, refID)
		if err != nil {
			return staleIfMissing(err)
		}
		if err := settleable(p.Status, p.IsPaid); err != nil {
			return err
		}
		if paidStatus, ok := reservation.PaidStatus(kind); ok {
			if err := tx.Prescriptions().UpdateStatus(ctx, refID, p.Status, paidStatus); err != nil {
				return err
			}
		}
		return tx.Prescriptions().SetPaid(ctx, refID)

	case reservation.KindExamination:
		e, err := tx.Examinations().FindByID(ctx, refID)
		if err != nil {
			return staleIfMissing(err)
		}
		if err := settleable(e.Status, e.IsPaid); err != nil {
			return err
		}
		if paidStatus, ok := reservation.PaidStatus(kind); ok {
			if err := tx.Examinations().UpdateStatus(ctx, refID, e.Status, paidStatus); err != nil {
				return err
			}
		}
		return tx.Examinations().SetPaid(ctx, refID)

	default:
		return errs.ErrStaleReference
	}
}

func staleIfMissing(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Mark(err, errs.ErrStaleReference)
	}
	return err
}
