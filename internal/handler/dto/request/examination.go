package request

import (
	"github.com/google/uuid"
)

type CreateExaminationRequest struct {
	PatientID   uuid.UUID   `json:"patient_id" binding:"required"`
	ExamItemIDs []uuid.UUID `json:"exam_item_ids" binding:"required,min=1"`
}

type RecordExamResultRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
	Result string    `json:"result" binding:"required,max=1024"`
}
