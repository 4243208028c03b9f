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
	"hospital-ops/internal/usecase/shared"
)

func TestReserveSlot(t *testing.T) {
	t.Run("books one unit and returns the queue position", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 3, "25.00")
		patient := e.seedPatient(t, "0")

		a, err := e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
		require.NoError(t, err)

		assert.Equal(t, int32(1), a.QueueNo)
		assert.Equal(t, reservation.AppointmentPending, a.Status)
		assert.Equal(t, patient.ID, a.PatientID)
		assert.Equal(t, doctor.ID, a.DoctorID)
		assert.True(t, a.Fee.Equal(dec("25.00")))
		assert.Regexp(t, `^GH\d{12}$`, a.AppointmentNo)
		assert.False(t, a.IsPaid)
		assert.Equal(t, int32(1), e.scheduleBooked(t, scheduleID))
	})

	t.Run("queue positions increase per booking", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 5, "25.00")

		for want := int32(1); want <= 3; want++ {
			patient := e.seedPatient(t, "0")
			a, err := e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
			require.NoError(t, err)
			assert.Equal(t, want, a.QueueNo)
		}
	})

	t.Run("only patients may book", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 3, "25.00")

		_, err := e.appointments.ReserveSlot(context.Background(), scheduleID, doctor)
		assert.ErrorIs(t, err, errs.ErrForbidden)

		_, err = e.appointments.ReserveSlot(context.Background(), scheduleID, adminActor())
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("unknown schedule", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")

		_, err := e.appointments.ReserveSlot(context.Background(), uuid.New(), patient)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("full schedule rejects the booking", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 1, "25.00")

		first := e.seedPatient(t, "0")
		_, err := e.appointments.ReserveSlot(context.Background(), scheduleID, first)
		require.NoError(t, err)

		second := e.seedPatient(t, "0")
		_, err = e.appointments.ReserveSlot(context.Background(), scheduleID, second)
		assert.ErrorIs(t, err, errs.ErrCapacityExceeded)
		assert.Equal(t, int32(1), e.scheduleBooked(t, scheduleID))
	})

	t.Run("a patient cannot double-book the same schedule", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 5, "25.00")
		patient := e.seedPatient(t, "0")

		_, err := e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
		require.NoError(t, err)

		_, err = e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
		assert.ErrorIs(t, err, errs.ErrAlreadyReserved)
		assert.Equal(t, int32(1), e.scheduleBooked(t, scheduleID))
	})

	t.Run("rebooking after a cancel is allowed", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 5, "25.00")
		patient := e.seedPatient(t, "0")

		a, err := e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
		require.NoError(t, err)
		require.NoError(t, e.appointments.CancelAppointment(context.Background(), a.ID, patient))

		_, err = e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
		assert.NoError(t, err)
	})

	t.Run("inactive schedule rejects the booking", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 3, "25.00")
		require.NoError(t, e.catalog.SetScheduleActive(context.Background(), scheduleID, false, adminActor()))

		patient := e.seedPatient(t, "0")
		_, err := e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
		assert.ErrorIs(t, err, errs.ErrInactive)
	})

	t.Run("one remaining unit goes to exactly one of many concurrent callers", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 1, "25.00")

		const callers = 16
		patients := make([]shared.Actor, callers)
		for i := range patients {
			patients[i] = e.seedPatient(t, "0")
		}

		var wg sync.WaitGroup
		errors := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errors[i] = e.appointments.ReserveSlot(context.Background(), scheduleID, patients[i])
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errors {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, errs.ErrCapacityExceeded)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, int32(1), e.scheduleBooked(t, scheduleID))
	})

	t.Run("concurrent bookings by one patient yield one live appointment", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		scheduleID := e.seedSchedule(t, doctor.ID, 10, "25.00")

		const callers = 8
		var wg sync.WaitGroup
		errors := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errors[i] = e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errors {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, errs.ErrAlreadyReserved)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, int32(1), e.scheduleBooked(t, scheduleID))
	})
}

func TestCancelAppointment(t *testing.T) {
	t.Run("cancel releases the slot unit", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 3, "25.00")
		patient := e.seedPatient(t, "0")

		a, err := e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
		require.NoError(t, err)
		require.Equal(t, int32(1), e.scheduleBooked(t, scheduleID))

		require.NoError(t, e.appointments.CancelAppointment(context.Background(), a.ID, patient))
		assert.Equal(t, reservation.AppointmentCancelled, e.appointmentStatus(t, a.ID))
		assert.Equal(t, int32(0), e.scheduleBooked(t, scheduleID))
	})

	t.Run("double cancel fails and releases nothing twice", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 3, "25.00")
		patient := e.seedPatient(t, "0")

		a, err := e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
		require.NoError(t, err)
		require.NoError(t, e.appointments.CancelAppointment(context.Background(), a.ID, patient))

		err = e.appointments.CancelAppointment(context.Background(), a.ID, patient)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, int32(0), e.scheduleBooked(t, scheduleID))
	})

	t.Run("a patient cannot cancel someone else's appointment", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 3, "25.00")
		owner := e.seedPatient(t, "0")
		other := e.seedPatient(t, "0")

		a, err := e.appointments.ReserveSlot(context.Background(), scheduleID, owner)
		require.NoError(t, err)

		err = e.appointments.CancelAppointment(context.Background(), a.ID, other)
		assert.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, reservation.AppointmentPending, e.appointmentStatus(t, a.ID))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		e := newEnv(t)
		patient := e.seedPatient(t, "0")

		err := e.appointments.CancelAppointment(context.Background(), uuid.New(), patient)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}
