package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/usecase/shared"
)

type DepartmentResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func FromDepartment(d *shared.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
	}
}

type DoctorResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	DepartmentID uuid.UUID `json:"department_id"`
	Active       bool      `json:"active"`
}

func FromDoctor(d *shared.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:           d.ID,
		Username:     d.Username,
		Name:         d.Name,
		Title:        d.Title,
		DepartmentID: d.DepartmentID,
		Active:       d.Active,
	}
}

type ScheduleResponse struct {
	ID          uuid.UUID       `json:"id"`
	DoctorID    uuid.UUID       `json:"doctor_id"`
	VisitDate   time.Time       `json:"visit_date"`
	TimeSlot    string          `json:"time_slot"`
	Fee         decimal.Decimal `json:"fee"`
	MaxPatients int32           `json:"max_patients"`
	BookedCount int32           `json:"booked_count"`
	Active      bool            `json:"active"`
}

func FromSchedule(s *shared.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID,
		DoctorID:    s.DoctorID,
		VisitDate:   s.VisitDate,
		TimeSlot:    s.TimeSlot,
		Fee:         s.Fee,
		MaxPatients: s.MaxPatients,
		BookedCount: s.BookedCount,
		Active:      s.Active,
	}
}

type MedicineResponse struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Spec   string          `json:"spec"`
	Unit   string          `json:"unit"`
	Price  decimal.Decimal `json:"price"`
	Stock  int64           `json:"stock"`
	Active bool            `json:"active"`
}

func FromMedicine(m *shared.Medicine) MedicineResponse {
	return MedicineResponse{
		ID:     m.ID,
		Name:   m.Name,
		Spec:   m.Spec,
		Unit:   m.Unit,
		Price:  m.Price,
		Stock:  m.Stock,
		Active: m.Active,
	}
}

type ExamItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Active      bool            `json:"active"`
}

func FromExamItem(e *shared.ExamItemDef) ExamItemResponse {
	return ExamItemResponse{
		ID:          e.ID,
		Name:        e.Name,
		Price:       e.Price,
		Description: e.Description,
		Active:      e.Active,
	}
}
