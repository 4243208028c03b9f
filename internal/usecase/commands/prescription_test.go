//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/commands"
	"hospital-ops/internal/usecase/shared"
)

func TestCreatePrescription(t *testing.T) {
	t.Run("consumes stock and prices every line", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		recordID := e.seedRecord(t, doctor.ID, patient.ID)
		medA := e.seedMedicine(t, 100, "2.50")
		medB := e.seedMedicine(t, 10, "10.00")

		p, err := e.prescriptions.CreatePrescription(context.Background(), recordID, []commands.PrescriptionLine{
			{MedicineID: medA, Quantity: 4, Dosage: "1 tab tid"},
			{MedicineID: medB, Quantity: 2, Dosage: "1 tab qd"},
		}, doctor)
		require.NoError(t, err)

		assert.Equal(t, reservation.PrescriptionUnpaid, p.Status)
		assert.Regexp(t, `^CF\d{12}$`, p.PrescriptionNo)
		assert.Equal(t, patient.ID, p.PatientID)
		require.Len(t, p.Items, 2)
		assert.True(t, p.Items[0].Subtotal.Equal(dec("10.00")))
		assert.True(t, p.Items[1].Subtotal.Equal(dec("20.00")))
		assert.True(t, p.TotalAmount.Equal(dec("30.00")))

		assert.Equal(t, int64(96), e.medicineStock(t, medA))
		assert.Equal(t, int64(8), e.medicineStock(t, medB))
	})

	t.Run("a single short line rolls back the whole unit", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		recordID := e.seedRecord(t, doctor.ID, patient.ID)
		medA := e.seedMedicine(t, 100, "2.50")
		medB := e.seedMedicine(t, 1, "10.00")

		_, err := e.prescriptions.CreatePrescription(context.Background(), recordID, []commands.PrescriptionLine{
			{MedicineID: medA, Quantity: 4, Dosage: "1 tab tid"},
			{MedicineID: medB, Quantity: 2, Dosage: "1 tab qd"},
		}, doctor)
		assert.ErrorIs(t, err, errs.ErrInsufficientStock)

		// The first line's consumption must not survive.
		assert.Equal(t, int64(100), e.medicineStock(t, medA))
		assert.Equal(t, int64(1), e.medicineStock(t, medB))
	})

	t.Run("inactive medicine fails the unit", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		recordID := e.seedRecord(t, doctor.ID, patient.ID)
		med := e.seedMedicine(t, 100, "2.50")
		e.within(t, func(ctx context.Context, tx shared.Tx) error {
			m, err := tx.Medicines().FindByID(ctx, med)
			if err != nil {
				return err
			}
			m.Active = false
			return tx.Medicines().Create(ctx, m)
		})

		_, err := e.prescriptions.CreatePrescription(context.Background(), recordID, []commands.PrescriptionLine{
			{MedicineID: med, Quantity: 1, Dosage: "1 tab"},
		}, doctor)
		assert.ErrorIs(t, err, errs.ErrInactive)
		assert.Equal(t, int64(100), e.medicineStock(t, med))
	})

	t.Run("only the record's own doctor may prescribe", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		otherDoctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		recordID := e.seedRecord(t, doctor.ID, patient.ID)
		med := e.seedMedicine(t, 100, "2.50")

		lines := []commands.PrescriptionLine{{MedicineID: med, Quantity: 1, Dosage: "1 tab"}}

		_, err := e.prescriptions.CreatePrescription(context.Background(), recordID, lines, otherDoctor)
		assert.ErrorIs(t, err, errs.ErrForbidden)

		_, err = e.prescriptions.CreatePrescription(context.Background(), recordID, lines, patient)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("empty line list", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)

		_, err := e.prescriptions.CreatePrescription(context.Background(), uuid.New(), nil, doctor)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("unknown medicine in a line", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		recordID := e.seedRecord(t, doctor.ID, patient.ID)

		_, err := e.prescriptions.CreatePrescription(context.Background(), recordID, []commands.PrescriptionLine{
			{MedicineID: uuid.New(), Quantity: 1, Dosage: "1 tab"},
		}, doctor)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestCancelPrescription(t *testing.T) {
	t.Run("cancel restores every line's stock", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		recordID := e.seedRecord(t, doctor.ID, patient.ID)
		medA := e.seedMedicine(t, 100, "2.50")
		medB := e.seedMedicine(t, 10, "10.00")

		p, err := e.prescriptions.CreatePrescription(context.Background(), recordID, []commands.PrescriptionLine{
			{MedicineID: medA, Quantity: 4, Dosage: "1 tab tid"},
			{MedicineID: medB, Quantity: 2, Dosage: "1 tab qd"},
		}, doctor)
		require.NoError(t, err)

		require.NoError(t, e.prescriptions.CancelPrescription(context.Background(), p.ID, patient))
		assert.Equal(t, int64(100), e.medicineStock(t, medA))
		assert.Equal(t, int64(10), e.medicineStock(t, medB))
	})

	t.Run("paid prescription cannot be cancelled", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "100.00")
		recordID := e.seedRecord(t, doctor.ID, patient.ID)
		med := e.seedMedicine(t, 100, "2.50")

		p, err := e.prescriptions.CreatePrescription(context.Background(), recordID, []commands.PrescriptionLine{
			{MedicineID: med, Quantity: 1, Dosage: "1 tab"},
		}, doctor)
		require.NoError(t, err)

		pay, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForPrescription, p.ID, patient)
		require.NoError(t, err)
		_, err = e.payments.SettlePayment(context.Background(), pay.ID, reservation.PayMethodBalance, patient)
		require.NoError(t, err)

		err = e.prescriptions.CancelPrescription(context.Background(), p.ID, patient)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, int64(99), e.medicineStock(t, med))
	})

	t.Run("a patient cannot cancel someone else's prescription", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		other := e.seedPatient(t, "0")
		recordID := e.seedRecord(t, doctor.ID, patient.ID)
		med := e.seedMedicine(t, 100, "2.50")

		p, err := e.prescriptions.CreatePrescription(context.Background(), recordID, []commands.PrescriptionLine{
			{MedicineID: med, Quantity: 1, Dosage: "1 tab"},
		}, doctor)
		require.NoError(t, err)

		err = e.prescriptions.CancelPrescription(context.Background(), p.ID, other)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestDispense(t *testing.T) {
	setup := func(t *testing.T) (*env, shared.Actor, shared.Actor, uuid.UUID) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "100.00")
		recordID := e.seedRecord(t, doctor.ID, patient.ID)
		med := e.seedMedicine(t, 100, "2.50")

		p, err := e.prescriptions.CreatePrescription(context.Background(), recordID, []commands.PrescriptionLine{
			{MedicineID: med, Quantity: 1, Dosage: "1 tab"},
		}, doctor)
		require.NoError(t, err)
		return e, doctor, patient, p.ID
	}

	t.Run("unpaid prescription cannot be dispensed", func(t *testing.T) {
		e, doctor, _, prescriptionID := setup(t)

		err := e.prescriptions.Dispense(context.Background(), prescriptionID, doctor)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("paid prescription dispenses once", func(t *testing.T) {
		e, doctor, patient, prescriptionID := setup(t)

		pay, err := e.payments.CreatePayment(context.Background(), reservation.PaymentForPrescription, prescriptionID, patient)
		require.NoError(t, err)
		_, err = e.payments.SettlePayment(context.Background(), pay.ID, reservation.PayMethodBalance, patient)
		require.NoError(t, err)

		require.NoError(t, e.prescriptions.Dispense(context.Background(), prescriptionID, doctor))

		err = e.prescriptions.Dispense(context.Background(), prescriptionID, doctor)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("patients cannot dispense", func(t *testing.T) {
		e, _, patient, prescriptionID := setup(t)

		err := e.prescriptions.Dispense(context.Background(), prescriptionID, patient)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}
