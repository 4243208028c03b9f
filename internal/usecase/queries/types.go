package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side). Listing data is advisory: the write path
// re-checks capacity and funds under row locks, so a stale view can never
// oversell a slot.

type ScheduleView struct {
	ID             uuid.UUID       `json:"id"`
	DoctorID       uuid.UUID       `json:"doctor_id"`
	DoctorName     string          `json:"doctor_name"`
	DepartmentID   uuid.UUID       `json:"department_id"`
	DepartmentName string          `json:"department_name"`
	VisitDate      time.Time       `json:"visit_date"`
	TimeSlot       string          `json:"time_slot"`
	Fee            decimal.Decimal `json:"fee"`
	MaxPatients    int32           `json:"max_patients"`
	BookedCount    int32           `json:"booked_count"`
	Available      int32           `json:"available"`
	Active         bool            `json:"active"`
}

type AppointmentView struct {
	ID            uuid.UUID       `json:"id"`
	AppointmentNo string          `json:"appointment_no"`
	PatientID     uuid.UUID       `json:"patient_id"`
	PatientName   string          `json:"patient_name"`
	DoctorID      uuid.UUID       `json:"doctor_id"`
	DoctorName    string          `json:"doctor_name"`
	DepartmentID  uuid.UUID       `json:"department_id"`
	ScheduleID    uuid.UUID       `json:"schedule_id"`
	VisitDate     time.Time       `json:"visit_date"`
	TimeSlot      string          `json:"time_slot"`
	Fee           decimal.Decimal `json:"fee"`
	QueueNo       int32           `json:"queue_no"`
	Status        int16           `json:"status"`
	IsPaid        bool            `json:"is_paid"`
	CreatedAt     time.Time       `json:"created_at"`
}

type PrescriptionItemView struct {
	ID           uuid.UUID       `json:"id"`
	MedicineID   uuid.UUID       `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int64           `json:"quantity"`
	Dosage       string          `json:"dosage"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type PrescriptionView struct {
	ID             uuid.UUID              `json:"id"`
	PrescriptionNo string                 `json:"prescription_no"`
	PatientID      uuid.UUID              `json:"patient_id"`
	DoctorID       uuid.UUID              `json:"doctor_id"`
	DoctorName     string                 `json:"doctor_name"`
	TotalAmount    decimal.Decimal        `json:"total_amount"`
	Status         int16                  `json:"status"`
	IsPaid         bool                   `json:"is_paid"`
	Items          []PrescriptionItemView `json:"items"`
	CreatedAt      time.Time              `json:"created_at"`
}

type ExaminationItemView struct {
	ID         uuid.UUID  `json:"id"`
	ExamItemID uuid.UUID  `json:"exam_item_id"`
	ItemName   string     `json:"item_name"`
	Result     string     `json:"result"`
	Status     int16      `json:"status"`
	CheckedAt  *time.Time `json:"checked_at,omitempty"`
}

type ExaminationView struct {
	ID          uuid.UUID             `json:"id"`
	ExamNo      string                `json:"exam_no"`
	PatientID   uuid.UUID             `json:"patient_id"`
	DoctorID    uuid.UUID             `json:"doctor_id"`
	ExamDate    time.Time             `json:"exam_date"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	Status      int16                 `json:"status"`
	IsPaid      bool                  `json:"is_paid"`
	ReportAt    *time.Time            `json:"report_at,omitempty"`
	Items       []ExaminationItemView `json:"items"`
	CreatedAt   time.Time             `json:"created_at"`
}

type PaymentView struct {
	ID        uuid.UUID       `json:"id"`
	PaymentNo string          `json:"payment_no"`
	PatientID uuid.UUID       `json:"patient_id"`
	Type      int16           `json:"type"`
	RefID     uuid.UUID       `json:"ref_id"`
	Amount    decimal.Decimal `json:"amount"`
	PayMethod int16           `json:"pay_method"`
	Status    int16           `json:"status"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type RechargeView struct {
	ID         uuid.UUID       `json:"id"`
	RechargeNo string          `json:"recharge_no"`
	PatientID  uuid.UUID       `json:"patient_id"`
	Amount     decimal.Decimal `json:"amount"`
	PayMethod  int16           `json:"pay_method"`
	Status     int16           `json:"status"`
	SettledAt  *time.Time      `json:"settled_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type BalanceView struct {
	PatientID uuid.UUID       `json:"patient_id"`
	Balance   decimal.Decimal `json:"balance"`
}

type MedicineView struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Spec   string          `json:"spec"`
	Unit   string          `json:"unit"`
	Price  decimal.Decimal `json:"price"`
	Stock  int64           `json:"stock"`
	Active bool            `json:"active"`
}

type ExamItemView struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Active      bool            `json:"active"`
}

type DoctorView struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Title          string    `json:"title"`
	DepartmentID   uuid.UUID `json:"department_id"`
	DepartmentName string    `json:"department_name"`
	Active         bool      `json:"active"`
}

type DepartmentView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type MedicalRecordView struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	DoctorName    string    `json:"doctor_name"`
	Diagnosis     string    `json:"diagnosis"`
	Advice        string    `json:"advice"`
	CreatedAt     time.Time `json:"created_at"`
}

// Page bounds every listing. Size is capped by Normalize.
type Page struct {
	Number int32
	Size   int32
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) Limit() int32  { return p.Size }
func (p Page) Offset() int32 { return (p.Number - 1) * p.Size }

// Read-store ports, implemented by infra/readstore.

type ScheduleQueries interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ScheduleView, error)
	List(ctx context.Context, departmentID *uuid.UUID, visitDate *time.Time, page Page) ([]*ScheduleView, error)
}

type AppointmentQueries interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, page Page) ([]*AppointmentView, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, page Page) ([]*AppointmentView, error)
}

type PrescriptionQueries interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PrescriptionView, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, page Page) ([]*PrescriptionView, error)
}

type ExaminationQueries interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ExaminationView, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, page Page) ([]*ExaminationView, error)
}

type PaymentQueries interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, page Page) ([]*PaymentView, error)
	ListRechargesByPatient(ctx context.Context, patientID uuid.UUID, page Page) ([]*RechargeView, error)
	FindRechargeByID(ctx context.Context, id uuid.UUID) (*RechargeView, error)
}

type PatientQueries interface {
	Balance(ctx context.Context, patientID uuid.UUID) (*BalanceView, error)
}

type CatalogQueries interface {
	ListDepartments(ctx context.Context, page Page) ([]*DepartmentView, error)
	ListDoctors(ctx context.Context, departmentID *uuid.UUID, page Page) ([]*DoctorView, error)
	ListMedicines(ctx context.Context, page Page) ([]*MedicineView, error)
	ListExamItems(ctx context.Context, page Page) ([]*ExamItemView, error)
}

type MedicalRecordQueries interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MedicalRecordView, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, page Page) ([]*MedicalRecordView, error)
}
