package request

import (
	"github.com/google/uuid"

	"hospital-ops/internal/usecase/commands"
)

type PrescriptionLineRequest struct {
	MedicineID uuid.UUID `json:"medicine_id" binding:"required"`
	Quantity   int64     `json:"quantity" binding:"required,gt=0"`
	Dosage     string    `json:"dosage" binding:"required,max=128"`
}

type CreatePrescriptionRequest struct {
	MedicalRecordID uuid.UUID                 `json:"medical_record_id" binding:"required"`
	Items           []PrescriptionLineRequest `json:"items" binding:"required,min=1,dive"`
}

func (r CreatePrescriptionRequest) ToLines() []commands.PrescriptionLine {
	lines := make([]commands.PrescriptionLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, commands.PrescriptionLine{
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			Dosage:     item.Dosage,
		})
	}
	return lines
}
