//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/commands"
)

func TestCatalogAdminOnly(t *testing.T) {
	e := newEnv(t)
	doctor := e.seedDoctor(t)
	patient := e.seedPatient(t, "0")
	ctx := context.Background()

	for name, call := range map[string]func() error{
		"department": func() error {
			_, err := e.catalog.CreateDepartment(ctx, "Oncology", "", doctor)
			return err
		},
		"doctor": func() error {
			_, err := e.catalog.CreateDoctor(ctx, commands.CreateDoctorInput{Username: "x", Password: "y", DepartmentID: uuid.New()}, patient)
			return err
		},
		"schedule": func() error {
			_, err := e.catalog.CreateSchedule(ctx, commands.CreateScheduleInput{DoctorID: doctor.ID, MaxPatients: 5, Fee: dec("10")}, doctor)
			return err
		},
		"schedule active": func() error {
			return e.catalog.SetScheduleActive(ctx, uuid.New(), false, doctor)
		},
		"medicine": func() error {
			_, err := e.catalog.CreateMedicine(ctx, commands.CreateMedicineInput{Name: "x", Price: dec("1")}, doctor)
			return err
		},
		"restock": func() error {
			return e.catalog.RestockMedicine(ctx, uuid.New(), 10, patient)
		},
		"exam item": func() error {
			_, err := e.catalog.CreateExamItem(ctx, commands.CreateExamItemInput{Name: "x", Price: dec("1")}, doctor)
			return err
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), errs.ErrForbidden)
		})
	}
}

func TestCreateSchedule(t *testing.T) {
	t.Run("new slot opens with full capacity", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)

		s, err := e.catalog.CreateSchedule(context.Background(), commands.CreateScheduleInput{
			DoctorID:    doctor.ID,
			VisitDate:   e.clk.Now().AddDate(0, 0, 2),
			TimeSlot:    "afternoon",
			Fee:         dec("25.00"),
			MaxPatients: 30,
		}, adminActor())
		require.NoError(t, err)

		assert.True(t, s.Active)
		assert.Equal(t, int32(0), s.BookedCount)
		assert.Equal(t, int32(30), s.MaxPatients)
		assert.Equal(t, doctor.ID, s.DoctorID)
	})

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)

		_, err := e.catalog.CreateSchedule(context.Background(), commands.CreateScheduleInput{
			DoctorID: doctor.ID, Fee: dec("25.00"), MaxPatients: 0,
		}, adminActor())
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		e := newEnv(t)

		_, err := e.catalog.CreateSchedule(context.Background(), commands.CreateScheduleInput{
			DoctorID: uuid.New(), Fee: dec("25.00"), MaxPatients: 5,
		}, adminActor())
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestSetScheduleActive(t *testing.T) {
	t.Run("closing an empty slot", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		scheduleID := e.seedSchedule(t, doctor.ID, 5, "25.00")

		require.NoError(t, e.catalog.SetScheduleActive(context.Background(), scheduleID, false, adminActor()))

		patient := e.seedPatient(t, "0")
		_, err := e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
		assert.ErrorIs(t, err, errs.ErrInactive)
	})

	t.Run("a slot with live bookings cannot close", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		scheduleID := e.seedSchedule(t, doctor.ID, 5, "25.00")
		_, err := e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
		require.NoError(t, err)

		err = e.catalog.SetScheduleActive(context.Background(), scheduleID, false, adminActor())
		assert.ErrorIs(t, err, errs.ErrScheduleHasBookings)
	})

	t.Run("closes after the booking is cancelled", func(t *testing.T) {
		e := newEnv(t)
		doctor := e.seedDoctor(t)
		patient := e.seedPatient(t, "0")
		scheduleID := e.seedSchedule(t, doctor.ID, 5, "25.00")
		a, err := e.appointments.ReserveSlot(context.Background(), scheduleID, patient)
		require.NoError(t, err)
		require.NoError(t, e.appointments.CancelAppointment(context.Background(), a.ID, patient))

		assert.NoError(t, e.catalog.SetScheduleActive(context.Background(), scheduleID, false, adminActor()))
	})
}

func TestRestockMedicine(t *testing.T) {
	t.Run("positive quantity adds stock", func(t *testing.T) {
		e := newEnv(t)
		medicineID := e.seedMedicine(t, 100, "4.50")

		require.NoError(t, e.catalog.RestockMedicine(context.Background(), medicineID, 250, adminActor()))
		assert.Equal(t, int64(350), e.medicineStock(t, medicineID))
	})

	t.Run("negative quantity writes stock off", func(t *testing.T) {
		e := newEnv(t)
		medicineID := e.seedMedicine(t, 100, "4.50")

		require.NoError(t, e.catalog.RestockMedicine(context.Background(), medicineID, -30, adminActor()))
		assert.Equal(t, int64(70), e.medicineStock(t, medicineID))
	})

	t.Run("cannot write off more than is on hand", func(t *testing.T) {
		e := newEnv(t)
		medicineID := e.seedMedicine(t, 100, "4.50")

		err := e.catalog.RestockMedicine(context.Background(), medicineID, -101, adminActor())
		assert.ErrorIs(t, err, errs.ErrInsufficientStock)
		assert.Equal(t, int64(100), e.medicineStock(t, medicineID))
	})

	t.Run("zero quantity", func(t *testing.T) {
		e := newEnv(t)
		medicineID := e.seedMedicine(t, 100, "4.50")

		err := e.catalog.RestockMedicine(context.Background(), medicineID, 0, adminActor())
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestCreateMedicine(t *testing.T) {
	e := newEnv(t)

	m, err := e.catalog.CreateMedicine(context.Background(), commands.CreateMedicineInput{
		Name:  "Amoxicillin 500mg",
		Spec:  "500mg x 24 capsules",
		Unit:  "box",
		Price: dec("12.80"),
		Stock: 400,
	}, adminActor())
	require.NoError(t, err)

	assert.True(t, m.Active)
	assert.Equal(t, int64(400), e.medicineStock(t, m.ID))

	_, err = e.catalog.CreateMedicine(context.Background(), commands.CreateMedicineInput{
		Name: "Bad", Price: dec("-1"),
	}, adminActor())
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)
}

func TestCreateDoctor(t *testing.T) {
	t.Run("requires an existing department", func(t *testing.T) {
		e := newEnv(t)

		_, err := e.catalog.CreateDoctor(context.Background(), commands.CreateDoctorInput{
			Username: "dr.wang", Password: "pw123456", Name: "Wang Fang", DepartmentID: uuid.New(),
		}, adminActor())
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("created active under its department", func(t *testing.T) {
		e := newEnv(t)
		dept, err := e.catalog.CreateDepartment(context.Background(), "Pediatrics", "children's medicine", adminActor())
		require.NoError(t, err)

		d, err := e.catalog.CreateDoctor(context.Background(), commands.CreateDoctorInput{
			Username:     "dr.wang",
			Password:     "pw123456",
			Name:         "Wang Fang",
			Title:        "Chief Physician",
			DepartmentID: dept.ID,
		}, adminActor())
		require.NoError(t, err)

		assert.True(t, d.Active)
		assert.Equal(t, dept.ID, d.DepartmentID)
		assert.NotEqual(t, "pw123456", d.PasswordHash)
	})
}
