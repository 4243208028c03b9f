package errs

import "errors"

// Sentinel errors shared by the ledger and reservation usecases.
// All of them are terminal for the call that produced them except ErrBusy,
// which callers may retry with backoff.
var (
	// Lookup / guard errors
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("operation not allowed for this actor")
	ErrInactive  = errors.New("resource is not active")

	// Capacity ledger errors
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUnderflow indicates a release below zero. It is a caller bug, never
	// surfaced as a user-facing condition.
	ErrUnderflow = errors.New("capacity underflow")

	// Balance ledger errors
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")

	// Reservation lifecycle errors
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrIncompleteChildren  = errors.New("unfinished child items")
	ErrStaleReference      = errors.New("funded record missing or terminal")
	ErrAlreadyReserved     = errors.New("patient already holds a live reservation for this slot")
	ErrScheduleHasBookings = errors.New("schedule still has live bookings")

	// Reference-number collision after bounded regeneration attempts.
	ErrConflict = errors.New("reference number conflict")

	// ErrBusy means nothing was committed; the caller may retry.
	ErrBusy = errors.New("resource busy, retry later")
)

// IsRetryable reports whether a failed call may be safely retried.
// Everything except ErrBusy committed nothing but also will not succeed
// on a blind retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBusy)
}
