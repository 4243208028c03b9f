package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/domain/reservation"
)

// UnitOfWork is the atomic-unit boundary. Every orchestrator operation runs
// inside exactly one Within call: the status write, the at-most-one capacity
// mutation and the at-most-one balance mutation all commit or all abort.
//
// Lock discipline: within a unit, rows are acquired in the fixed order
// reservation row -> capacity row -> account row. Write-side FindByID calls
// lock the row for the remainder of the unit.
type UnitOfWork interface {
	// Within runs fn in a transaction and retries transparently on
	// serialization conflicts. Lock-wait timeouts surface as ErrBusy with
	// nothing committed.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly runs fn against a consistent snapshot, no writes.
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the repositories of one atomic unit. Implementations construct
// them lazily against the open transaction.
type Tx interface {
	Appointments() AppointmentRepository
	Prescriptions() PrescriptionRepository
	Examinations() ExaminationRepository
	Payments() PaymentRepository
	Recharges() RechargeRepository
	Schedules() ScheduleRepository
	Medicines() MedicineRepository
	Patients() PatientRepository
	Records() MedicalRecordRepository
	Doctors() DoctorRepository
	Departments() DepartmentRepository
	ExamItems() ExamItemRepository
	Admins() AdminRepository
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// UpdateStatus is a compare-and-swap: it fails with ErrInvalidTransition
	// when the row is no longer in the from state.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) error
	SetPaid(ctx context.Context, id uuid.UUID) error
	// HasLive reports whether the patient already holds a pending or visited
	// appointment on the schedule.
	HasLive(ctx context.Context, patientID, scheduleID uuid.UUID) (bool, error)
}

type PrescriptionRepository interface {
	Create(ctx context.Context, p *Prescription) error
	FindByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) error
	SetPaid(ctx context.Context, id uuid.UUID) error
}

type ExaminationRepository interface {
	Create(ctx context.Context, e *Examination) error
	FindByID(ctx context.Context, id uuid.UUID) (*Examination, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) error
	SetPaid(ctx context.Context, id uuid.UUID) error
	SetReportAt(ctx context.Context, id uuid.UUID, at time.Time) error
	RecordItemResult(ctx context.Context, examinationID, itemID uuid.UUID, result string, checkedAt time.Time) error
	CountUnchecked(ctx context.Context, examinationID uuid.UUID) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// Settle moves pending -> settled recording method and time; CAS on status.
	Settle(ctx context.Context, id uuid.UUID, method reservation.PayMethod, at time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) error
}

type RechargeRepository interface {
	Create(ctx context.Context, r *Recharge) error
	FindByID(ctx context.Context, id uuid.UUID) (*Recharge, error)
	Settle(ctx context.Context, id uuid.UUID, method reservation.PayMethod, at time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) error
}

// ScheduleRepository is the capacity ledger for doctor time slots. Reserve and
// Release are the only writers of booked_count.
type ScheduleRepository interface {
	Create(ctx context.Context, s *Schedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*Schedule, error)
	// Reserve claims one unit and returns the 1-based queue index.
	Reserve(ctx context.Context, id uuid.UUID) (int32, error)
	Release(ctx context.Context, id uuid.UUID) error
	// SetActive(false) fails with ErrScheduleHasBookings while units are held.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// MedicineRepository is the capacity ledger for stock, plus catalog writes.
type MedicineRepository interface {
	Create(ctx context.Context, m *Medicine) error
	FindByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Medicine, error)
	Consume(ctx context.Context, id uuid.UUID, qty int64) error
	Restore(ctx context.Context, id uuid.UUID, qty int64) error
}

// PatientRepository doubles as the balance ledger: Debit and Credit are the
// only writers of balance.
type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	FindByUsername(ctx context.Context, username string) (*Patient, error)
	Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
}

type MedicalRecordRepository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	Update(ctx context.Context, id uuid.UUID, diagnosis, advice string) error
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	FindByUsername(ctx context.Context, username string) (*Doctor, error)
}

type DepartmentRepository interface {
	Create(ctx context.Context, d *Department) error
	FindByID(ctx context.Context, id uuid.UUID) (*Department, error)
}

type ExamItemRepository interface {
	Create(ctx context.Context, def *ExamItemDef) error
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ExamItemDef, error)
}

type AdminRepository interface {
	Create(ctx context.Context, a *Admin) error
	FindByUsername(ctx context.Context, username string) (*Admin, error)
}
