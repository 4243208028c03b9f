//go:build unit

package uow_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/infra"
	"hospital-ops/internal/infra/uow"
	"hospital-ops/internal/pkg/errs"
	"hospital-ops/internal/usecase/shared"
)

func newPatient() *shared.Patient {
	id := uuid.New()
	return &shared.Patient{
		ID:            id,
		Username:      "user-" + id.String()[:8],
		PasswordHash:  "x",
		Name:          "P",
		MedicalCardNo: "YK" + id.String()[:12],
		Balance:       decimal.NewFromInt(100),
	}
}

func TestMemoryUoWRollback(t *testing.T) {
	t.Run("an error undoes every write in the unit", func(t *testing.T) {
		u := uow.NewMemoryUoW()
		p := newPatient()
		ctx := context.Background()

		require.NoError(t, u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Patients().Create(ctx, p)
		}))

		sentinel := errs.New("boom")
		err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if _, err := tx.Patients().Debit(ctx, p.ID, decimal.NewFromInt(40)); err != nil {
				return err
			}
			other := newPatient()
			if err := tx.Patients().Create(ctx, other); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		require.NoError(t, u.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
			got, err := tx.Patients().FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
			return nil
		}))
	})

	t.Run("rollback releases claimed usernames", func(t *testing.T) {
		u := uow.NewMemoryUoW()
		p := newPatient()
		ctx := context.Background()

		sentinel := errs.New("boom")
		err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Patients().Create(ctx, p); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		// The username must be claimable again after the failed unit.
		assert.NoError(t, u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Patients().Create(ctx, p)
		}))
	})

	t.Run("duplicate username inside one store", func(t *testing.T) {
		u := uow.NewMemoryUoW()
		p := newPatient()
		ctx := context.Background()

		require.NoError(t, u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Patients().Create(ctx, p)
		}))

		dup := newPatient()
		dup.Username = p.Username
		err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Patients().Create(ctx, dup)
		})
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})
}

func TestMemoryUoWReadOnly(t *testing.T) {
	t.Run("writes inside a read-only unit do not leak", func(t *testing.T) {
		u := uow.NewMemoryUoW()
		p := newPatient()
		ctx := context.Background()

		require.NoError(t, u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Patients().Create(ctx, p)
		}))

		require.NoError(t, u.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
			_, err := tx.Patients().Debit(ctx, p.ID, decimal.NewFromInt(99))
			return err
		}))

		require.NoError(t, u.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
			got, err := tx.Patients().FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
			return nil
		}))
	})

	t.Run("cancelled context short-circuits", func(t *testing.T) {
		u := uow.NewMemoryUoW()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			t.Fatal("unit ran under a cancelled context")
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)

		err = u.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
			t.Fatal("unit ran under a cancelled context")
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
