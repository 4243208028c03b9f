// Package refno produces human-readable business reference numbers.
//
// A reference number is prefix + YYYYMMDD + zero-padded random suffix. It is
// NOT guaranteed unique; callers must treat a unique-violation on insert as
// retryable (regenerate, bounded attempts).
package refno

import (
	"fmt"
	"math/rand"
	"time"
)

// Business prefixes used across the hospital front ends.
const (
	PrefixAppointment  = "GH"
	PrefixPrescription = "CF"
	PrefixExamination  = "TJ"
	PrefixPayment      = "JF"
	PrefixRecharge     = "CZ"
	PrefixMedicalCard  = "YK"
)

// MaxAttempts bounds regenerate-and-retry loops on unique conflicts.
const MaxAttempts = 3

// New returns prefix + date + 4-digit random suffix, e.g. "GH202608290421".
func New(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%s%04d", prefix, now.Format("20060102"), rand.Intn(10000))
}

// NewMedicalCard returns a card number with a millisecond component so that
// registrations in the same second rarely collide: YK + YYYYMMDD + mmm + 3 digits.
func NewMedicalCard(now time.Time) string {
	return fmt.Sprintf("%s%s%03d%03d",
		PrefixMedicalCard, now.Format("20060102"), now.Nanosecond()/1e6, rand.Intn(1000))
}
