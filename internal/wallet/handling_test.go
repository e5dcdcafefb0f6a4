package wallet_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sversluys/walleto/internal/movement"
	"github.com/sversluys/walleto/internal/operation"
	"github.com/sversluys/walleto/internal/wallet"
)

// installmentSeries builds a wallet holding a five-part monthly series and
// returns the wallet plus the siblings in due-date order.
func installmentSeries(t *testing.T) (*wallet.Wallet, []*movement.Movement) {
	t.Helper()

	w := newWallet(t)
	seed := newMovement(t, func(p *movement.Params) {
		p.GroupID = uuid.New()
		p.DueDate = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	})

	require.NoError(t, w.AddInstallment(seed, movement.FrequencyMonthly, 5))

	series := w.Movements()
	require.Len(t, series, 5)

	return w, series
}

func activeIDs(w *wallet.Wallet) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool)
	for _, m := range w.Movements() {
		out[m.ID()] = m.Active()
	}

	return out
}

func TestWallet_RemoveInstallment_Modes(t *testing.T) {
	type testCase struct {
		name string
		mode wallet.HandlingMode
		// wantInactive indexes into the due-date-ordered series; the pivot
		// is always index 2.
		wantInactive []int
	}

	tests := []testCase{
		{
			name:         "JustThisOne",
			mode:         wallet.HandleJustThisOne,
			wantInactive: []int{2},
		},
		{
			name:         "All",
			mode:         wallet.HandleAll,
			wantInactive: []int{0, 1, 2, 3, 4},
		},
		{
			name:         "ThisAndNext",
			mode:         wallet.HandleThisAndNext,
			wantInactive: []int{2, 3, 4},
		},
		{
			name:         "Next",
			mode:         wallet.HandleNext,
			wantInactive: []int{3, 4},
		},
		{
			name:         "ThisAndPrevious",
			mode:         wallet.HandleThisAndPrevious,
			wantInactive: []int{0, 1, 2},
		},
		{
			name:         "Previous",
			mode:         wallet.HandlePrevious,
			wantInactive: []int{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, series := installmentSeries(t)
			pivot := series[2]

			require.NoError(t, w.RemoveInstallment(pivot, tt.mode))

			inactive := make(map[int]bool, len(tt.wantInactive))
			for _, i := range tt.wantInactive {
				inactive[i] = true
			}

			active := activeIDs(w)
			for i, m := range series {
				assert.Equal(t, !inactive[i], active[m.ID()], "sibling %d", i)
			}
		})
	}
}

func TestWallet_RemoveInstallment_SkipsAccomplished(t *testing.T) {
	w, series := installmentSeries(t)

	fund(t, w, 1000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, w.ConfirmMovement(series[0], time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, w.RemoveInstallment(series[2], wallet.HandleAll))

	first, err := w.Movement(series[0].ID())
	require.NoError(t, err)
	assert.True(t, first.Active(), "accomplished siblings are never touched")
	assert.True(t, first.Accomplished())

	for _, s := range series[1:] {
		got, err := w.Movement(s.ID())
		require.NoError(t, err)
		assert.False(t, got.Active())
	}
}

func TestWallet_RemoveInstallment_Preconditions(t *testing.T) {
	w, series := installmentSeries(t)
	pivot := series[2]

	t.Run("NilPivot", func(t *testing.T) {
		assert.ErrorIs(t, w.RemoveInstallment(nil, wallet.HandleAll), operation.ErrNilArgument)
	})

	t.Run("NotAnInstallment", func(t *testing.T) {
		assert.ErrorIs(t, w.RemoveInstallment(newMovement(t), wallet.HandleAll), wallet.ErrNotAnInstallment)
	})

	t.Run("MissingMode", func(t *testing.T) {
		assert.ErrorIs(t, w.RemoveInstallment(pivot, ""), wallet.ErrHandlingModeRequired)
	})

	t.Run("UnknownMode", func(t *testing.T) {
		assert.ErrorIs(t, w.RemoveInstallment(pivot, "SOME_OF_THEM"), wallet.ErrUnknownHandlingMode)
	})

	t.Run("PivotNotStored", func(t *testing.T) {
		other := newMovement(t, func(p *movement.Params) { p.GroupID = uuid.New() })
		assert.ErrorIs(t, w.RemoveInstallment(other, wallet.HandleAll), wallet.ErrMovementNotFound)
	})

	t.Run("JustThisOneAccomplished", func(t *testing.T) {
		w, series := installmentSeries(t)
		fund(t, w, 1000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, w.ConfirmMovement(series[0], time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))

		assert.ErrorIs(t, w.RemoveInstallment(series[0], wallet.HandleJustThisOne), wallet.ErrAlreadyAccomplished)
	})
}

func TestWallet_UpdateInstallment(t *testing.T) {
	t.Run("ThisAndNext", func(t *testing.T) {
		w, series := installmentSeries(t)
		pivot := series[2].Clone()
		require.NoError(t, pivot.UpdateName("Renegotiated"))

		require.NoError(t, w.UpdateInstallment(pivot, wallet.HandleThisAndNext))

		for i, s := range series {
			got, err := w.Movement(s.ID())
			require.NoError(t, err)

			if i >= 2 {
				assert.Equal(t, "Renegotiated", got.Name(), "sibling %d", i)
			} else {
				assert.Equal(t, "Groceries", got.Name(), "sibling %d", i)
			}
		}
	})

	t.Run("PaymentMethodNotAccepted", func(t *testing.T) {
		w, series := installmentSeries(t)
		pivot := series[2].Clone()
		require.NoError(t, pivot.UpdatePaymentMethod(uuid.New()))

		assert.ErrorIs(t, w.UpdateInstallment(pivot, wallet.HandleAll), wallet.ErrPaymentMethodNotAccepted)
	})

	t.Run("DueDatesUntouched", func(t *testing.T) {
		w, series := installmentSeries(t)
		pivot := series[2].Clone()
		require.NoError(t, pivot.UpdateDueDate(time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)))

		require.NoError(t, w.UpdateInstallment(pivot, wallet.HandleAll))

		for i, s := range series {
			got, err := w.Movement(s.ID())
			require.NoError(t, err)
			assert.Equal(t, s.DueDate(), got.DueDate(), "sibling %d", i)
		}
	})
}
