package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/usecase/shared"
)

type PrescriptionItemResponse struct {
	MedicineID uuid.UUID       `json:"medicine_id"`
	Quantity   int64           `json:"quantity"`
	Dosage     string          `json:"dosage"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type PrescriptionResponse struct {
	ID              uuid.UUID                  `json:"id"`
	PrescriptionNo  string                     `json:"prescription_no"`
	MedicalRecordID uuid.UUID                  `json:"medical_record_id"`
	PatientID       uuid.UUID                  `json:"patient_id"`
	DoctorID        uuid.UUID                  `json:"doctor_id"`
	TotalAmount     decimal.Decimal            `json:"total_amount"`
	Status          int16                      `json:"status"`
	IsPaid          bool                       `json:"is_paid"`
	Items           []PrescriptionItemResponse `json:"items"`
	CreatedAt       time.Time                  `json:"created_at"`
}

func FromPrescription(p *shared.Prescription) PrescriptionResponse {
	items := make([]PrescriptionItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, PrescriptionItemResponse{
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			Dosage:     item.Dosage,
			UnitPrice:  item.UnitPrice,
			Subtotal:   item.Subtotal,
		})
	}
	return PrescriptionResponse{
		ID:              p.ID,
		PrescriptionNo:  p.PrescriptionNo,
		MedicalRecordID: p.MedicalRecordID,
		PatientID:       p.PatientID,
		DoctorID:        p.DoctorID,
		TotalAmount:     p.TotalAmount,
		Status:          int16(p.Status),
		IsPaid:          p.IsPaid,
		Items:           items,
		CreatedAt:       p.CreatedAt,
	}
}
