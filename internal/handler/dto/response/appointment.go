package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/usecase/shared"
)

type AppointmentResponse struct {
	ID            uuid.UUID       `json:"id"`
	AppointmentNo string          `json:"appointment_no"`
	PatientID     uuid.UUID       `json:"patient_id"`
	DoctorID      uuid.UUID       `json:"doctor_id"`
	ScheduleID    uuid.UUID       `json:"schedule_id"`
	VisitDate     time.Time       `json:"visit_date"`
	TimeSlot      string          `json:"time_slot"`
	Fee           decimal.Decimal `json:"fee"`
	QueueNo       int32           `json:"queue_no"`
	Status        int16           `json:"status"`
	IsPaid        bool            `json:"is_paid"`
	CreatedAt     time.Time       `json:"created_at"`
}

func FromAppointment(a *shared.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            a.ID,
		AppointmentNo: a.AppointmentNo,
		PatientID:     a.PatientID,
		DoctorID:      a.DoctorID,
		ScheduleID:    a.ScheduleID,
		VisitDate:     a.VisitDate,
		TimeSlot:      a.TimeSlot,
		Fee:           a.Fee,
		QueueNo:       a.QueueNo,
		Status:        int16(a.Status),
		IsPaid:        a.IsPaid,
		CreatedAt:     a.CreatedAt,
	}
}
