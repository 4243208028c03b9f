package request

import (
	"github.com/google/uuid"
)

type CreateMedicalRecordRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	Diagnosis     string    `json:"diagnosis" binding:"required,max=2048"`
	Advice        string    `json:"advice" binding:"max=2048"`
}

type UpdateMedicalRecordRequest struct {
	Diagnosis string `json:"diagnosis" binding:"required,max=2048"`
	Advice    string `json:"advice" binding:"max=2048"`
}
