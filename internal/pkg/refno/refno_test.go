//go:build unit

package refno_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hospital-ops/internal/pkg/refno"
)

func TestNew(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		prefix string
	}{
		{"appointment", refno.PrefixAppointment},
		{"prescription", refno.PrefixPrescription},
		{"examination", refno.PrefixExamination},
		{"payment", refno.PrefixPayment},
		{"recharge", refno.PrefixRecharge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			no := refno.New(tt.prefix, now)
			assert.Regexp(t, regexp.MustCompile("^"+tt.prefix+`20260829\d{4}$`), no)
		})
	}
}

func TestNewMedicalCard(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 30, 0, 123*int(time.Millisecond), time.UTC)

	no := refno.NewMedicalCard(now)
	assert.Regexp(t, `^YK20260829123\d{3}$`, no)
}
