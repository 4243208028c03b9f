//go:build unit

package account_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/domain/account"
	"hospital-ops/internal/pkg/errs"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDebit(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		errIs   error
		want    string
	}{
		{name: "partial debit", balance: "100.00", amount: "30.50", want: "69.50"},
		{name: "debit to exactly zero", balance: "50.00", amount: "50.00", want: "0"},
		{name: "one cent over", balance: "50.00", amount: "50.01", errIs: errs.ErrInsufficientFunds, want: "50.00"},
		{name: "zero amount", balance: "50.00", amount: "0", errIs: errs.ErrInvalidAmount, want: "50.00"},
		{name: "negative amount", balance: "50.00", amount: "-1", errIs: errs.ErrInvalidAmount, want: "50.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := &account.Account{Balance: dec(tt.balance)}

			got, err := acct.Debit(dec(tt.amount))
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, got.Equal(dec(tt.want)), "returned balance %s, want %s", got, tt.want)
			assert.True(t, acct.Balance.Equal(dec(tt.want)))
		})
	}

	t.Run("sequential debits drain exactly", func(t *testing.T) {
		acct := &account.Account{Balance: dec("50.00")}

		_, err := acct.Debit(dec("50.00"))
		require.NoError(t, err)

		_, err = acct.Debit(dec("0.01"))
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.True(t, acct.Balance.IsZero())
	})
}

func TestCredit(t *testing.T) {
	t.Run("credit adds", func(t *testing.T) {
		acct := &account.Account{Balance: dec("10.25")}

		got, err := acct.Credit(dec("0.75"))
		require.NoError(t, err)
		assert.True(t, got.Equal(dec("11.00")))
	})

	t.Run("credit rejects non-positive amounts", func(t *testing.T) {
		acct := &account.Account{Balance: dec("10.00")}

		_, err := acct.Credit(decimal.Zero)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		_, err = acct.Credit(dec("-5"))
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.True(t, acct.Balance.Equal(dec("10.00")))
	})
}
