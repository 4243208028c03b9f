// Package capacity holds the rules for finite reservable resources: doctor
// schedule slots (bounded by max patients) and medicine stock (bounded below
// by zero). Only the capacity ledger repositories may apply these mutations;
// nothing else writes booked counts or stock.
package capacity

import (
	"github.com/google/uuid"

	"hospital-ops/internal/pkg/errs"
)

// Slot is a finite-count resource: a doctor's time slot on a given day.
// Invariant: 0 <= Booked <= Limit.
type Slot struct {
	ID     uuid.UUID
	Limit  int32
	Booked int32
	Active bool
}

// Reserve claims one unit and returns the claimant's queue index (1-based).
func (s *Slot) Reserve() (int32, error) {
	if !s.Active {
		return 0, errs.ErrInactive
	}
	if s.Booked >= s.Limit {
		return 0, errs.ErrCapacityExceeded
	}
	s.Booked++
	return s.Booked, nil
}

// Release returns one unit. Going below zero is a caller bug surfaced as
// ErrUnderflow, never silently clamped.
func (s *Slot) Release() error {
	if s.Booked <= 0 {
		return errs.ErrUnderflow
	}
	s.Booked--
	return nil
}

func (s *Slot) Remaining() int32 {
	return s.Limit - s.Booked
}

// Stock is the inverse shape: an available count bounded below by zero.
type Stock struct {
	ID        uuid.UUID
	Available int64
}

// Consume takes qty units out of stock.
func (st *Stock) Consume(qty int64) error {
	if qty <= 0 {
		return errs.ErrInvalidAmount
	}
	if st.Available < qty {
		return errs.ErrInsufficientStock
	}
	st.Available -= qty
	return nil
}

// Restore puts qty units back, e.g. when an unpaid prescription is cancelled.
func (st *Stock) Restore(qty int64) error {
	if qty <= 0 {
		return errs.ErrInvalidAmount
	}
	st.Available += qty
	return nil
}
