package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/domain/reservation"
)

type CreatePaymentRequest struct {
	PaymentType int16     `json:"payment_type" binding:"required,oneof=1 2 3"`
	RefID       uuid.UUID `json:"ref_id" binding:"required"`
}

func (r CreatePaymentRequest) GetPaymentType() reservation.PaymentType {
	return reservation.PaymentType(r.PaymentType)
}

type SettleRequest struct {
	PayMethod int16 `json:"pay_method" binding:"required,oneof=1 2 3"`
}

func (r SettleRequest) GetPayMethod() reservation.PayMethod {
	return reservation.PayMethod(r.PayMethod)
}

type CreateRechargeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}
