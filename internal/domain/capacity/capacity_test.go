//go:build unit

package capacity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/domain/capacity"
	"hospital-ops/internal/pkg/errs"
)

func TestSlotReserve(t *testing.T) {
	t.Run("queue numbers count up from one", func(t *testing.T) {
		slot := &capacity.Slot{Limit: 3, Active: true}

		for want := int32(1); want <= 3; want++ {
			got, err := slot.Reserve()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		assert.Equal(t, int32(0), slot.Remaining())
	})

	t.Run("full slot rejects further reservations", func(t *testing.T) {
		slot := &capacity.Slot{Limit: 1, Booked: 1, Active: true}

		_, err := slot.Reserve()
		assert.ErrorIs(t, err, errs.ErrCapacityExceeded)
		assert.Equal(t, int32(1), slot.Booked)
	})

	t.Run("inactive slot rejects before checking capacity", func(t *testing.T) {
		slot := &capacity.Slot{Limit: 5, Active: false}

		_, err := slot.Reserve()
		assert.ErrorIs(t, err, errs.ErrInactive)
	})
}

func TestSlotRelease(t *testing.T) {
	t.Run("release frees one unit", func(t *testing.T) {
		slot := &capacity.Slot{Limit: 2, Booked: 2, Active: true}

		require.NoError(t, slot.Release())
		assert.Equal(t, int32(1), slot.Booked)
		assert.Equal(t, int32(1), slot.Remaining())
	})

	t.Run("release below zero is an underflow", func(t *testing.T) {
		slot := &capacity.Slot{Limit: 2, Booked: 0, Active: true}

		assert.ErrorIs(t, slot.Release(), errs.ErrUnderflow)
		assert.Equal(t, int32(0), slot.Booked)
	})

	t.Run("release works on an inactive slot", func(t *testing.T) {
		slot := &capacity.Slot{Limit: 2, Booked: 1, Active: false}

		assert.NoError(t, slot.Release())
	})
}

func TestStock(t *testing.T) {
	tests := []struct {
		name      string
		available int64
		qty       int64
		errIs     error
		want      int64
	}{
		{name: "consume part of stock", available: 10, qty: 3, want: 7},
		{name: "consume exactly all stock", available: 10, qty: 10, want: 0},
		{name: "consume more than available", available: 10, qty: 11, errIs: errs.ErrInsufficientStock, want: 10},
		{name: "consume zero", available: 10, qty: 0, errIs: errs.ErrInvalidAmount, want: 10},
		{name: "consume negative", available: 10, qty: -5, errIs: errs.ErrInvalidAmount, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &capacity.Stock{Available: tt.available}

			err := st.Consume(tt.qty)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, st.Available)
		})
	}

	t.Run("restore adds back", func(t *testing.T) {
		st := &capacity.Stock{Available: 2}
		require.NoError(t, st.Restore(5))
		assert.Equal(t, int64(7), st.Available)
	})

	t.Run("restore rejects non-positive quantities", func(t *testing.T) {
		st := &capacity.Stock{Available: 2}
		assert.ErrorIs(t, st.Restore(0), errs.ErrInvalidAmount)
		assert.ErrorIs(t, st.Restore(-1), errs.ErrInvalidAmount)
	})
}
