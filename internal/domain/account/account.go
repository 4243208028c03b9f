// Package account holds the balance rules for patient accounts. Balances are
// mutated only by the balance ledger repositories, inside the same atomic
// unit as the reservation transition that triggered the movement.
package account

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/pkg/errs"
)

// Account is a patient's stored balance. Invariant: Balance >= 0.
type Account struct {
	PatientID uuid.UUID
	Balance   decimal.Decimal
}

// Debit removes amount and returns the new balance. A debit that would take
// the balance negative fails with ErrInsufficientFunds and changes nothing.
func (a *Account) Debit(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return a.Balance, errs.ErrInvalidAmount
	}
	if a.Balance.LessThan(amount) {
		return a.Balance, errs.ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	return a.Balance, nil
}

// Credit adds amount and returns the new balance.
func (a *Account) Credit(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return a.Balance, errs.ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return a.Balance, nil
}
