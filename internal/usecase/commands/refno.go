package commands

import (
	"hospital-ops/internal/infra"
	"hospital-ops/internal/pkg/errs"
)

// withRefNoRetry runs fn with freshly generated reference numbers until one
// sticks. Each attempt runs its own atomic unit, so a collision rolls back
// cleanly and only the number is regenerated. Bounded attempts keep a
// pathological generator from spinning; exhaustion surfaces as ErrConflict.
func withRefNoRetry(maxAttempts int, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !infra.IsKind(err, infra.KindDuplicateKey) {
			return err
		}
	}
	return errs.Mark(err, errs.ErrConflict)
}
