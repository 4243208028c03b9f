package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/usecase/shared"
)

type ExaminationItemResponse struct {
	ID         uuid.UUID  `json:"id"`
	ExamItemID uuid.UUID  `json:"exam_item_id"`
	Result     string     `json:"result"`
	Status     int16      `json:"status"`
	CheckedAt  *time.Time `json:"checked_at,omitempty"`
}

type ExaminationResponse struct {
	ID          uuid.UUID                 `json:"id"`
	ExamNo      string                    `json:"exam_no"`
	PatientID   uuid.UUID                 `json:"patient_id"`
	DoctorID    uuid.UUID                 `json:"doctor_id"`
	ExamDate    time.Time                 `json:"exam_date"`
	TotalAmount decimal.Decimal           `json:"total_amount"`
	Status      int16                     `json:"status"`
	IsPaid      bool                      `json:"is_paid"`
	ReportAt    *time.Time                `json:"report_at,omitempty"`
	Items       []ExaminationItemResponse `json:"items"`
	CreatedAt   time.Time                 `json:"created_at"`
}

func FromExamination(e *shared.Examination) ExaminationResponse {
	items := make([]ExaminationItemResponse, 0, len(e.Items))
	for _, item := range e.Items {
		items = append(items, ExaminationItemResponse{
			ID:         item.ID,
			ExamItemID: item.ExamItemID,
			Result:     item.Result,
			Status:     int16(item.Status),
			CheckedAt:  item.CheckedAt,
		})
	}
	return ExaminationResponse{
		ID:          e.ID,
		ExamNo:      e.ExamNo,
		PatientID:   e.PatientID,
		DoctorID:    e.DoctorID,
		ExamDate:    e.ExamDate,
		TotalAmount: e.TotalAmount,
		Status:      int16(e.Status),
		IsPaid:      e.IsPaid,
		ReportAt:    e.ReportAt,
		Items:       items,
		CreatedAt:   e.CreatedAt,
	}
}
