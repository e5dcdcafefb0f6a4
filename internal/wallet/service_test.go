package wallet_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sversluys/walleto/internal/movement"
	"github.com/sversluys/walleto/internal/operation"
	"github.com/sversluys/walleto/internal/wallet"
)

func serviceWallet(t *testing.T) *wallet.Wallet {
	t.Helper()

	w, err := wallet.New("Checking", "", "EUR", []uuid.UUID{testMethod})
	require.NoError(t, err)

	return w
}

func movementParams() movement.Params {
	return movement.Params{
		Name:          "Groceries",
		Amount:        decimal.NewFromInt(50),
		DueDate:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		PaymentMethod: testMethod,
		Payee:         testPayee,
		Category:      testCategory,
		Type:          movement.TypeDebit,
	}
}

func TestService_CreateWallet(t *testing.T) {
	type testCase struct {
		name      string
		params    wallet.CreateParams
		setupMock func(m *wallet.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: wallet.CreateParams{
				Name:           "Checking",
				Currency:       "EUR",
				PaymentMethods: []uuid.UUID{uuid.New()},
			},
			setupMock: func(m *wallet.MockRepository) {
				m.EXPECT().
					CreateWallet(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "InvalidName",
			params: wallet.CreateParams{
				Name:           "ab",
				Currency:       "EUR",
				PaymentMethods: []uuid.UUID{uuid.New()},
			},
			wantErr: operation.ErrNameSize,
		},
		{
			name: "RepoError",
			params: wallet.CreateParams{
				Name:           "Checking",
				Currency:       "EUR",
				PaymentMethods: []uuid.UUID{uuid.New()},
			},
			setupMock: func(m *wallet.MockRepository) {
				m.EXPECT().
					CreateWallet(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := wallet.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := wallet.NewService(repo)
			got, err := svc.CreateWallet(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID())
		})
	}
}

func TestService_AddMovement(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		w := serviceWallet(t)
		repo := wallet.NewMockRepository(ctrl)
		repo.EXPECT().GetWallet(gomock.Any(), w.ID()).Return(w, nil)
		repo.EXPECT().SaveWallet(gomock.Any(), w).Return(nil)

		svc := wallet.NewService(repo)
		got, err := svc.AddMovement(context.Background(), w.ID(), movementParams())

		require.NoError(t, err)
		stored, err := w.Movement(got.ID())
		require.NoError(t, err)
		assert.True(t, stored.DeepEqual(got))
	})

	t.Run("PreconditionFailureSkipsSave", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		w := serviceWallet(t)
		repo := wallet.NewMockRepository(ctrl)
		repo.EXPECT().GetWallet(gomock.Any(), w.ID()).Return(w, nil)
		// No SaveWallet expectation: a rejected movement must not be persisted.

		params := movementParams()
		params.PaymentMethod = uuid.New()

		svc := wallet.NewService(repo)
		_, err := svc.AddMovement(context.Background(), w.ID(), params)

		assert.ErrorIs(t, err, wallet.ErrPaymentMethodNotAccepted)
	})

	t.Run("InvalidParams", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := wallet.NewMockRepository(ctrl)
		svc := wallet.NewService(repo)

		params := movementParams()
		params.Amount = decimal.Zero

		_, err := svc.AddMovement(context.Background(), uuid.New(), params)
		assert.ErrorIs(t, err, operation.ErrZeroAmount)
	})
}

func TestService_AddInstallment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := serviceWallet(t)
	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().GetWallet(gomock.Any(), w.ID()).Return(w, nil)
	repo.EXPECT().SaveWallet(gomock.Any(), w).Return(nil)

	// The caller-supplied frequency and group are overridden by the series.
	params := movementParams()
	params.Frequency = movement.FrequencyYearly
	params.GroupID = uuid.New()

	svc := wallet.NewService(repo)
	seed, err := svc.AddInstallment(context.Background(), w.ID(), params, movement.FrequencyMonthly, 4)

	require.NoError(t, err)
	assert.True(t, seed.IsInstallment())
	assert.NotEqual(t, params.GroupID, seed.GroupID())
	assert.Len(t, w.Movements(), 4)
}

func TestService_ConfirmMovement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := serviceWallet(t)

	funding, err := movement.New(movement.Params{
		Name:          "Funding",
		Amount:        decimal.NewFromInt(100),
		DueDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: testMethod,
		Payee:         testPayee,
		Category:      testCategory,
		Type:          movement.TypeCredit,
	})
	require.NoError(t, err)
	require.NoError(t, w.AddMovement(funding))
	require.NoError(t, w.ConfirmMovement(funding, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	pending, err := movement.New(movementParams())
	require.NoError(t, err)
	require.NoError(t, w.AddMovement(pending))

	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().GetWallet(gomock.Any(), w.ID()).Return(w, nil)
	repo.EXPECT().SaveWallet(gomock.Any(), w).Return(nil)

	svc := wallet.NewService(repo)

	// A zero date defaults to today.
	got, err := svc.ConfirmMovement(context.Background(), w.ID(), pending.ID(), time.Time{})

	require.NoError(t, err)
	assert.True(t, got.Accomplished())

	when, ok := got.AccomplishDate()
	require.True(t, ok)
	assert.Equal(t, operation.DateOf(time.Now()), when)
}

func TestService_UpdateMovement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := serviceWallet(t)
	m, err := movement.New(movementParams())
	require.NoError(t, err)
	require.NoError(t, w.AddMovement(m))

	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().GetWallet(gomock.Any(), w.ID()).Return(w, nil)
	repo.EXPECT().SaveWallet(gomock.Any(), w).Return(nil)

	name := "Groceries and household"
	amount := decimal.NewFromInt(75)

	svc := wallet.NewService(repo)
	got, err := svc.UpdateMovement(context.Background(), w.ID(), m.ID(), wallet.UpdateMovementParams{
		Name:   &name,
		Amount: &amount,
	})

	require.NoError(t, err)
	assert.Equal(t, name, got.Name())
	assert.True(t, decimal.NewFromInt(-75).Equal(got.Amount()), "sign re-normalized on update")
}

func TestService_RemoveInstallment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := serviceWallet(t)

	params := movementParams()
	params.GroupID = uuid.New()
	seed, err := movement.New(params)
	require.NoError(t, err)
	require.NoError(t, w.AddInstallment(seed, movement.FrequencyMonthly, 3))

	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().GetWallet(gomock.Any(), w.ID()).Return(w, nil)
	repo.EXPECT().SaveWallet(gomock.Any(), w).Return(nil)

	svc := wallet.NewService(repo)
	require.NoError(t, svc.RemoveInstallment(context.Background(), w.ID(), seed.ID(), wallet.HandleAll))

	for _, stored := range w.Movements() {
		assert.False(t, stored.Active())
	}
}

func TestService_MissingHandlingMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := serviceWallet(t)

	params := movementParams()
	params.GroupID = uuid.New()
	seed, err := movement.New(params)
	require.NoError(t, err)
	require.NoError(t, w.AddInstallment(seed, movement.FrequencyMonthly, 3))

	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().GetWallet(gomock.Any(), w.ID()).Return(w, nil)

	svc := wallet.NewService(repo)
	err = svc.RemoveInstallment(context.Background(), w.ID(), seed.ID(), "")

	assert.ErrorIs(t, err, wallet.ErrHandlingModeRequired)
}

func TestService_BalancesOn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := serviceWallet(t)
	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().GetWallet(gomock.Any(), w.ID()).Return(w, nil)

	svc := wallet.NewService(repo)
	got, err := svc.BalancesOn(context.Background(), w.ID(), time.Date(2024, 1, 31, 15, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), got.Date)
	assert.True(t, got.Actual.IsZero())
	assert.True(t, got.Expected.IsZero())
}

func TestService_MonthlyCashFlow_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().GetWallet(gomock.Any(), gomock.Any()).Return(nil, wallet.ErrNotFound)

	svc := wallet.NewService(repo)
	_, err := svc.MonthlyCashFlow(context.Background(), uuid.New(), wallet.YearMonth{Year: 2024, Month: time.January})

	assert.ErrorIs(t, err, wallet.ErrNotFound)
}

func TestService_UpdateWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := serviceWallet(t)
	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().GetWallet(gomock.Any(), w.ID()).Return(w, nil)
	repo.EXPECT().SaveWallet(gomock.Any(), w).Return(nil)

	name := "Renamed"

	svc := wallet.NewService(repo)
	got, err := svc.UpdateWallet(context.Background(), w.ID(), wallet.UpdateWalletParams{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name())
}

func TestService_RemovePaymentMethod_LastOne(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := serviceWallet(t)
	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().GetWallet(gomock.Any(), w.ID()).Return(w, nil)

	svc := wallet.NewService(repo)
	err := svc.RemovePaymentMethod(context.Background(), w.ID(), testMethod)

	assert.ErrorIs(t, err, wallet.ErrLastPaymentMethod)
}
