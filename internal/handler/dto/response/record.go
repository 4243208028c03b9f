package response

import (
	"time"

	"github.com/google/uuid"

	"hospital-ops/internal/usecase/shared"
)

type MedicalRecordResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	Diagnosis     string    `json:"diagnosis"`
	Advice        string    `json:"advice"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromMedicalRecord(r *shared.MedicalRecord) MedicalRecordResponse {
	return MedicalRecordResponse{
		ID:            r.ID,
		AppointmentID: r.AppointmentID,
		PatientID:     r.PatientID,
		DoctorID:      r.DoctorID,
		Diagnosis:     r.Diagnosis,
		Advice:        r.Advice,
		CreatedAt:     r.CreatedAt,
	}
}
