//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/commands"
	"hospital-ops/internal/usecase/shared"
)

// bookAppointment reserves a slot and returns the pending appointment.
func bookAppointment(t *testing.T, e *env, patient shared.Actor, fee string) *shared.Appointment {
	t.Helper()
	doctor := e.seedDoctor(t)
	scheduleID := e.seedSchedule(t, doctor.ID, 10, fee)
	a, err := e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
	require.NoError(t, err)
	return a
}

func TestCreatePayment(t *testing.T) {
	t.Run("amount comes from the funded record", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")
		a := bookAppointment(t, e, patient, "35.00")

		p, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForAppointment, a.ID, patient)
		require.NoError(t, err)

		assert.True(t, p.Amount.Equal(dec("35.00")))
		assert.Equal(t, reservation.PaymentPending, p.Status)
		assert.Equal(t, reservation.PayMethodNone, p.PayMethod)
		assert.Equal(t, patient.ID, p.PatientID)
		assert.Regexp(t, `^JF\d{12}$`, p.PaymentNo)
	})

	t.Run("a patient cannot open a payment for someone else's record", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")
		other := e.seedPatient(t, "0")
		a := bookAppointment(t, e, patient, "35.00")

		_, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForAppointment, a.ID, other)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("cancelled record no longer accepts payment", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")
		a := bookAppointment(t, e, patient, "35.00")
		require.NoError(t, e.appointments.CancelAppointment(context.Background(), a.ID, patient))

		_, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForAppointment, a.ID, patient)
		assert.ErrorIs(t, err, errs.ErrStaleReference)
	})

	t.Run("missing record is stale, not missing", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")

		_, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForAppointment, uuid.New(), patient)
		assert.ErrorIs(t, err, errs.ErrStaleReference)
	})

	t.Run("already paid record rejects a second payment", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "100.00")
		a := bookAppointment(t, e, patient, "35.00")

		p, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForAppointment, a.ID, patient)
		require.NoError(t, err)
		_, err = e.payments.SettlePayment(context.Background(), p.ID, reservation.PayMethodBalance, patient)
		require.NoError(t, err)

		_, err = e.payments.CreatePayment(context.Background(), reservation.PaymentForAppointment, a.ID, patient)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestSettlePayment(t *testing.T) {
	t.Run("balance settlement debits the account and flips the paid flag", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "50.00")
		a := bookAppointment(t, e, patient, "35.00")

		p, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForAppointment, a.ID, patient)
		require.NoError(t, err)

		result, err := e.payments.SettlePayment(context.Background(), p.ID, reservation.PayMethodBalance, patient)
		require.NoError(t, err)

		assert.True(t, result.Amount.Equal(dec("35.00")))
		require.NotNil(t, result.NewBalance)
		assert.True(t, result.NewBalance.Equal(dec("15.00")))
		assert.True(t, e.patientBalance(t, patient.ID).Equal(dec("15.00")))

		// An appointment keeps its status; only the paid flag moves.
		assert.Equal(t, reservation.AppointmentPending, e.appointmentStatus(t, a.ID))
	})

	t.Run("external settlement leaves the balance alone", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "10.00")
		a := bookAppointment(t, e, patient, "35.00")

		p, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForAppointment, a.ID, patient)
		require.NoError(t, err)

		result, err := e.payments.SettlePayment(context.Background(), p.ID, reservation.PayMethodWechat, patient)
		require.NoError(t, err)
		assert.Nil(t, result.NewBalance)
		assert.True(t, e.patientBalance(t, patient.ID).Equal(dec("10.00")))
	})

	t.Run("insufficient funds rolls back the whole unit", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "10.00")
		recordID := e.seedRecord(t, doctor.ID, patient.ID)
		med := e.seedMedicine(t, 100, "15.00")

		pres, err := e.prescriptions.CreatePrescription(context.Background(), recordID, []commands.PrescriptionLine{
			{MedicineID: med, Quantity: 1, Dosage: "1 tab"},
		}, doctor)
		require.NoError(t, err)

		p, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForPrescription, pres.ID, patient)
		require.NoError(t, err)

		_, err = e.payments.SettlePayment(context.Background(), p.ID, reservation.PayMethodBalance, patient)
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)

		// Payment still pending, prescription still unpaid, balance untouched.
		e.withinRead(t, func(ctx context.Context, tx shared.Tx) {
			got, err := tx.Payments().FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, reservation.PaymentPending, got.Status)

			presGot, err := tx.Prescriptions().FindByID(ctx, pres.ID)
			require.NoError(t, err)
			assert.Equal(t, reservation.PrescriptionUnpaid, presGot.Status)
			assert.False(t, presGot.IsPaid)
		})
		assert.True(t, e.patientBalance(t, patient.ID).Equal(dec("10.00")))
	})

	t.Run("settling a prescription advances it to paid", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "100.00")
		recordID := e.seedRecord(t, doctor.ID, patient.ID)
		med := e.seedMedicine(t, 100, "15.00")

		pres, err := e.prescriptions.CreatePrescription(context.Background(), recordID, []commands.PrescriptionLine{
			{MedicineID: med, Quantity: 2, Dosage: "1 tab"},
		}, doctor)
		require.NoError(t, err)

		p, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForPrescription, pres.ID, patient)
		require.NoError(t, err)
		_, err = e.payments.SettlePayment(context.Background(), p.ID, reservation.PayMethodBalance, patient)
		require.NoError(t, err)

		e.withinRead(t, func(ctx context.Context, tx shared.Tx) {
			got, err := tx.Prescriptions().FindByID(ctx, pres.ID)
			require.NoError(t, err)
			assert.Equal(t, reservation.PrescriptionPaid, got.Status)
			assert.True(t, got.IsPaid)
		})
		assert.True(t, e.patientBalance(t, patient.ID).Equal(dec("70.00")))
	})

	t.Run("a settled payment cannot settle again", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "100.00")
		a := bookAppointment(t, e, patient, "35.00")

		p, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForAppointment, a.ID, patient)
		require.NoError(t, err)
		_, err = e.payments.SettlePayment(context.Background(), p.ID, reservation.PayMethodBalance, patient)
		require.NoError(t, err)

		_, err = e.payments.SettlePayment(context.Background(), p.ID, reservation.PayMethodBalance, patient)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.True(t, e.patientBalance(t, patient.ID).Equal(dec("65.00")))
	})

	t.Run("funded record cancelled after payment opened", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "100.00")
		a := bookAppointment(t, e, patient, "35.00")

		p, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForAppointment, a.ID, patient)
		require.NoError(t, err)
		require.NoError(t, e.appointments.CancelAppointment(context.Background(), a.ID, patient))

		_, err = e.payments.SettlePayment(context.Background(), p.ID, reservation.PayMethodBalance, patient)
		assert.ErrorIs(t, err, errs.ErrStaleReference)
		assert.True(t, e.patientBalance(t, patient.ID).Equal(dec("100.00")))
	})

	t.Run("invalid method", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")

		_, err := e.payments.SettlePayment(context.Background(), uuid.New(), reservation.PayMethodNone, patient)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("concurrent debits never take the balance negative", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "100.00")

		// Ten pending payments of 30 each against ten appointments; at most
		// three can settle from a balance of 100.
		const n = 10
		paymentIDs := make([]uuid.UUID, n)
		for i := 0; i < n; i++ {
			a := bookAppointment(t, e, patient, "30.00")
			p, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForAppointment, a.ID, patient)
			require.NoError(t, err)
			paymentIDs[i] = p.ID
		}

		var wg sync.WaitGroup
		errors := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errors[i] = e.payments.SettlePayment(context.Background(), paymentIDs[i], reservation.PayMethodBalance, patient)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errors {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
			}
		}
		assert.Equal(t, 3, succeeded)
		assert.True(t, e.patientBalance(t, patient.ID).Equal(dec("10.00")))
	})
}

func TestRecharge(t *testing.T) {
	t.Run("create and settle credits the balance", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "5.00")

		rec, err := e.payments.CreateRecharge(context.Background(), dec("45.00"), patient)
		require.NoError(t, err)
		assert.Equal(t, reservation.RechargePending, rec.Status)
		assert.Regexp(t, `^CZ\d{12}$`, rec.RechargeNo)

		// Pending recharges have not credited anything yet.
		assert.True(t, e.patientBalance(t, patient.ID).Equal(dec("5.00")))

		result, err := e.payments.SettleRecharge(context.Background(), rec.ID, reservation.PayMethodWechat, adminActor())
		require.NoError(t, err)
		require.NotNil(t, result.NewBalance)
		assert.True(t, result.NewBalance.Equal(dec("50.00")))
		assert.True(t, e.patientBalance(t, patient.ID).Equal(dec("50.00")))
	})

	t.Run("only admins settle recharges", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")

		rec, err := e.payments.CreateRecharge(context.Background(), dec("10.00"), patient)
		require.NoError(t, err)

		_, err = e.payments.SettleRecharge(context.Background(), rec.ID, reservation.PayMethodWechat, patient)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("a recharge cannot be funded from the balance itself", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")

		rec, err := e.payments.CreateRecharge(context.Background(), dec("10.00"), patient)
		require.NoError(t, err)

		_, err = e.payments.SettleRecharge(context.Background(), rec.ID, reservation.PayMethodBalance, adminActor())
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("cancelled recharge cannot settle", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")

		rec, err := e.payments.CreateRecharge(context.Background(), dec("10.00"), patient)
		require.NoError(t, err)
		require.NoError(t, e.payments.CancelRecharge(context.Background(), rec.ID, patient))

		_, err = e.payments.SettleRecharge(context.Background(), rec.ID, reservation.PayMethodWechat, adminActor())
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.True(t, e.patientBalance(t, patient.ID).IsZero())
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")

		_, err := e.payments.CreateRecharge(context.Background(), dec("0"), patient)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		_, err = e.payments.CreateRecharge(context.Background(), dec("-5"), patient)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}
