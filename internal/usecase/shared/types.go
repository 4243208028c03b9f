package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/domain/reservation"
)

// Write-side records. These are the rows the atomic units load and mutate;
// read-side listing views live in usecase/queries.

type Appointment struct {
	ID            uuid.UUID
	AppointmentNo string
	PatientID     uuid.UUID
	DoctorID      uuid.UUID
	DepartmentID  uuid.UUID
	ScheduleID    uuid.UUID
	VisitDate     time.Time
	TimeSlot      string
	Fee           decimal.Decimal
	QueueNo       int32
	Status        reservation.Status
	IsPaid        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Prescription struct {
	ID              uuid.UUID
	PrescriptionNo  string
	MedicalRecordID uuid.UUID
	PatientID       uuid.UUID
	DoctorID        uuid.UUID
	TotalAmount     decimal.Decimal
	Status          reservation.Status
	IsPaid          bool
	Items           []PrescriptionItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PrescriptionItem struct {
	ID             uuid.UUID
	PrescriptionID uuid.UUID
	MedicineID     uuid.UUID
	Quantity       int64
	Dosage         string
	UnitPrice      decimal.Decimal
	Subtotal       decimal.Decimal
}

type Examination struct {
	ID          uuid.UUID
	ExamNo      string
	PatientID   uuid.UUID
	DoctorID    uuid.UUID
	ExamDate    time.Time
	TotalAmount decimal.Decimal
	Status      reservation.Status
	IsPaid      bool
	ReportAt    *time.Time
	Items       []ExaminationItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ExaminationItem struct {
	ID            uuid.UUID
	ExaminationID uuid.UUID
	ExamItemID    uuid.UUID
	Result        string
	Status        reservation.Status
	CheckedAt     *time.Time
}

type Payment struct {
	ID        uuid.UUID
	PaymentNo string
	PatientID uuid.UUID
	Type      reservation.PaymentType
	RefID     uuid.UUID
	Amount    decimal.Decimal
	PayMethod reservation.PayMethod
	Status    reservation.Status
	PaidAt    *time.Time
	CreatedAt time.Time
}

type Recharge struct {
	ID         uuid.UUID
	RechargeNo string
	PatientID  uuid.UUID
	Amount     decimal.Decimal
	PayMethod  reservation.PayMethod
	Status     reservation.Status
	SettledAt  *time.Time
	CreatedAt  time.Time
}

type Schedule struct {
	ID           uuid.UUID
	DoctorID     uuid.UUID
	DepartmentID uuid.UUID
	VisitDate    time.Time
	TimeSlot     string
	Fee          decimal.Decimal
	MaxPatients  int32
	BookedCount  int32
	Active       bool
	CreatedAt    time.Time
}

type Medicine struct {
	ID        uuid.UUID
	Name      string
	Spec      string
	Unit      string
	Price     decimal.Decimal
	Stock     int64
	Active    bool
	CreatedAt time.Time
}

type Patient struct {
	ID            uuid.UUID
	Username      string
	PasswordHash  string
	Name          string
	Phone         string
	MedicalCardNo string
	Balance       decimal.Decimal
	CreatedAt     time.Time
}

type Doctor struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Name         string
	Title        string
	DepartmentID uuid.UUID
	Active       bool
	CreatedAt    time.Time
}

type Department struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}

type Admin struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

type MedicalRecord struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	PatientID     uuid.UUID
	DoctorID      uuid.UUID
	Diagnosis     string
	Advice        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ExamItemDef is a catalog entry for an orderable examination item.
type ExamItemDef struct {
	ID          uuid.UUID
	Name        string
	Price       decimal.Decimal
	Description string
	Active      bool
	CreatedAt   time.Time
}
