package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/usecase/commands"
)

type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=512"`
}

type CreateDoctorRequest struct {
	Username     string    `json:"username" binding:"required,min=3,max=32"`
	Password     string    `json:"password" binding:"required,min=6,max=72"`
	Name         string    `json:"name" binding:"required,max=64"`
	Title        string    `json:"title" binding:"max=64"`
	DepartmentID uuid.UUID `json:"department_id" binding:"required"`
}

func (r CreateDoctorRequest) ToInput() commands.CreateDoctorInput {
	return commands.CreateDoctorInput{
		Username:     r.Username,
		Password:     r.Password,
		Name:         r.Name,
		Title:        r.Title,
		DepartmentID: r.DepartmentID,
	}
}

type CreateScheduleRequest struct {
	DoctorID    uuid.UUID       `json:"doctor_id" binding:"required"`
	VisitDate   time.Time       `json:"visit_date" binding:"required"`
	TimeSlot    string          `json:"time_slot" binding:"required,max=32"`
	Fee         decimal.Decimal `json:"fee" binding:"required"`
	MaxPatients int32           `json:"max_patients" binding:"required,gt=0"`
}

func (r CreateScheduleRequest) ToInput() commands.CreateScheduleInput {
	return commands.CreateScheduleInput{
		DoctorID:    r.DoctorID,
		VisitDate:   r.VisitDate,
		TimeSlot:    r.TimeSlot,
		Fee:         r.Fee,
		MaxPatients: r.MaxPatients,
	}
}

type SetScheduleActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type CreateMedicineRequest struct {
	Name  string          `json:"name" binding:"required,max=64"`
	Spec  string          `json:"spec" binding:"max=64"`
	Unit  string          `json:"unit" binding:"required,max=16"`
	Price decimal.Decimal `json:"price" binding:"required"`
	Stock int64           `json:"stock" binding:"gte=0"`
}

func (r CreateMedicineRequest) ToInput() commands.CreateMedicineInput {
	return commands.CreateMedicineInput{
		Name:  r.Name,
		Spec:  r.Spec,
		Unit:  r.Unit,
		Price: r.Price,
		Stock: r.Stock,
	}
}

type RestockMedicineRequest struct {
	Quantity int64 `json:"quantity" binding:"required"`
}

type CreateExamItemRequest struct {
	Name        string          `json:"name" binding:"required,max=64"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Description string          `json:"description" binding:"max=512"`
}

func (r CreateExamItemRequest) ToInput() commands.CreateExamItemInput {
	return commands.CreateExamItemInput{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
	}
}
