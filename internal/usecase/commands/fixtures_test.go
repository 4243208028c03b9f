//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/domain/reservation"
	"hospital-ops/internal/domain/user"
	"hospital-ops/internal/infra/uow"
	"hospital-ops/internal/pkg/clock"
	"hospital-ops/internal/pkg/jwt"
	"hospital-ops/internal/usecase/commands"
	"hospital-ops/internal/usecase/shared"
)

type env struct {
	uow *uow.MemoryUoW
	clk *clock.FixedClock
	jwt *jwt.Service

	auth          commands.AuthCommands
	appointments  commands.AppointmentCommands
	prescriptions commands.PrescriptionCommands
	examinations  commands.ExaminationCommands
	payments      commands.PaymentCommands
	records       commands.MedicalRecordCommands
	catalog       commands.CatalogCommands
}

func newEnv(t *testing.T) *env {
	t.Helper()

	u := uow.NewMemoryUoW()
	clk := clock.NewFixedClock(time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC))
	jwtService := jwt.NewService("test-secret", time.Hour)

	return &env{
		uow:           u,
		clk:           clk,
		jwt:           jwtService,
		auth:          commands.NewAuthCommands(u, jwtService, clk),
		appointments:  commands.NewAppointmentCommands(u, clk),
		prescriptions: commands.NewPrescriptionCommands(u, clk),
		examinations:  commands.NewExaminationCommands(u, clk),
		payments:      commands.NewPaymentCommands(u, clk),
		records:       commands.NewMedicalRecordCommands(u, clk),
		catalog:       commands.NewCatalogCommands(u, clk),
	}
}

func (e *env) within(t *testing.T, fn func(ctx context.Context, tx shared.Tx) error) {
	t.Helper()
	require.NoError(t, e.uow.Within(context.Background(), fn))
}

func (e *env) withinRead(t *testing.T, fn func(ctx context.Context, tx shared.Tx)) {
	t.Helper()
	require.NoError(t, e.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		fn(ctx, tx)
		return nil
	}))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func adminActor() shared.Actor {
	return shared.Actor{ID: uuid.New(), Role: user.RoleAdmin}
}

func (e *env) seedPatient(t *testing.T, balance string) shared.Actor {
	t.Helper()
	id := uuid.New()
	e.within(t, func(ctx context.Context, tx shared.Tx) error {
		return tx.Patients().Create(ctx, &shared.Patient{
			ID:            id,
			Username:      "patient-" + id.String()[:8],
			PasswordHash:  "x",
			Name:          "Test Patient",
			Phone:         "555-0100",
			MedicalCardNo: "YK" + id.String()[:12],
			Balance:       dec(balance),
			CreatedAt:     e.clk.Now(),
		})
	})
	return shared.Actor{ID: id, Role: user.RolePatient}
}

func (e *env) seedDoctor(t *testing.T) shared.Actor {
	t.Helper()
	id := uuid.New()
	e.within(t, func(ctx context.Context, tx shared.Tx) error {
		dept := &shared.Department{ID: uuid.New(), Name: "Internal Medicine"}
		if err := tx.Departments().Create(ctx, dept); err != nil {
			return err
		}
		return tx.Doctors().Create(ctx, &shared.Doctor{
			ID:           id,
			Username:     "doctor-" + id.String()[:8],
			PasswordHash: "x",
			Name:         "Test Doctor",
			Title:        "Attending Physician",
			DepartmentID: dept.ID,
			Active:       true,
			CreatedAt:    e.clk.Now(),
		})
	})
	return shared.Actor{ID: id, Role: user.RoleDoctor}
}

func (e *env) seedSchedule(t *testing.T, doctorID uuid.UUID, maxPatients int32, fee string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	e.within(t, func(ctx context.Context, tx shared.Tx) error {
		return tx.Schedules().Create(ctx, &shared.Schedule{
			ID:          id,
			DoctorID:    doctorID,
			VisitDate:   e.clk.Now().AddDate(0, 0, 1),
			TimeSlot:    "morning",
			Fee:         dec(fee),
			MaxPatients: maxPatients,
			Active:      true,
			CreatedAt:   e.clk.Now(),
		})
	})
	return id
}

func (e *env) seedMedicine(t *testing.T, stock int64, price string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	e.within(t, func(ctx context.Context, tx shared.Tx) error {
		return tx.Medicines().Create(ctx, &shared.Medicine{
			ID:        id,
			Name:      "Amoxicillin 250mg",
			Spec:      "250mg x 20",
			Unit:      "box",
			Price:     dec(price),
			Stock:     stock,
			Active:    true,
			CreatedAt: e.clk.Now(),
		})
	})
	return id
}

func (e *env) seedRecord(t *testing.T, doctorID, patientID uuid.UUID) uuid.UUID {
	t.Helper()
	id := uuid.New()
	e.within(t, func(ctx context.Context, tx shared.Tx) error {
		return tx.Records().Create(ctx, &shared.MedicalRecord{
			ID:            id,
			AppointmentID: uuid.New(),
			PatientID:     patientID,
			DoctorID:      doctorID,
			Diagnosis:     "acute pharyngitis",
			Advice:        "rest, fluids",
			CreatedAt:     e.clk.Now(),
			UpdatedAt:     e.clk.Now(),
		})
	})
	return id
}

func (e *env) seedExamItem(t *testing.T, name, price string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	e.within(t, func(ctx context.Context, tx shared.Tx) error {
		return tx.ExamItems().Create(ctx, &shared.ExamItemDef{
			ID:        id,
			Name:      name,
			Price:     dec(price),
			Active:    true,
			CreatedAt: e.clk.Now(),
		})
	})
	return id
}

func (e *env) patientBalance(t *testing.T, patientID uuid.UUID) decimal.Decimal {
	t.Helper()
	var balance decimal.Decimal
	err := e.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		p, err := tx.Patients().FindByID(ctx, patientID)
		if err != nil {
			return err
		}
		balance = p.Balance
		return nil
	})
	require.NoError(t, err)
	return balance
}

func (e *env) medicineStock(t *testing.T, medicineID uuid.UUID) int64 {
	t.Helper()
	var stock int64
	err := e.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		m, err := tx.Medicines().FindByID(ctx, medicineID)
		if err != nil {
			return err
		}
		stock = m.Stock
		return nil
	})
	require.NoError(t, err)
	return stock
}

func (e *env) scheduleBooked(t *testing.T, scheduleID uuid.UUID) int32 {
	t.Helper()
	var booked int32
	err := e.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Schedules().FindByID(ctx, scheduleID)
		if err != nil {
			return err
		}
		booked = s.BookedCount
		return nil
	})
	require.NoError(t, err)
	return booked
}

func (e *env) appointmentStatus(t *testing.T, id uuid.UUID) reservation.Status {
	t.Helper()
	var status reservation.Status
	err := e.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		a, err := tx.Appointments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		status = a.Status
		return nil
	})
	require.NoError(t, err)
	return status
}
