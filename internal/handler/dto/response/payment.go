package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/usecase/commands"
	"hospital-ops/internal/usecase/shared"
)

type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	PaymentNo string          `json:"payment_no"`
	PatientID uuid.UUID       `json:"patient_id"`
	Type      int16           `json:"payment_type"`
	RefID     uuid.UUID       `json:"ref_id"`
	Amount    decimal.Decimal `json:"amount"`
	PayMethod int16           `json:"pay_method"`
	Status    int16           `json:"status"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func FromPayment(p *shared.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		PaymentNo: p.PaymentNo,
		PatientID: p.PatientID,
		Type:      int16(p.Type),
		RefID:     p.RefID,
		Amount:    p.Amount,
		PayMethod: int16(p.PayMethod),
		Status:    int16(p.Status),
		PaidAt:    p.PaidAt,
		CreatedAt: p.CreatedAt,
	}
}

type RechargeResponse struct {
	ID         uuid.UUID       `json:"id"`
	RechargeNo string          `json:"recharge_no"`
	PatientID  uuid.UUID       `json:"patient_id"`
	Amount     decimal.Decimal `json:"amount"`
	PayMethod  int16           `json:"pay_method"`
	Status     int16           `json:"status"`
	SettledAt  *time.Time      `json:"settled_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func FromRecharge(r *shared.Recharge) RechargeResponse {
	return RechargeResponse{
		ID:         r.ID,
		RechargeNo: r.RechargeNo,
		PatientID:  r.PatientID,
		Amount:     r.Amount,
		PayMethod:  int16(r.PayMethod),
		Status:     int16(r.Status),
		SettledAt:  r.SettledAt,
		CreatedAt:  r.CreatedAt,
	}
}

type SettleResponse struct {
	Amount     decimal.Decimal  `json:"amount"`
	NewBalance *decimal.Decimal `json:"new_balance,omitempty"`
}

func FromSettleResult(r *commands.SettleResult) SettleResponse {
	return SettleResponse{
		Amount:     r.Amount,
		NewBalance: r.NewBalance,
	}
}
