package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sversluys/walleto/internal/export"
	"github.com/sversluys/walleto/internal/movement"
	"github.com/sversluys/walleto/internal/wallet"
)

var (
	testMethod   = uuid.New()
	testPayee    = uuid.New()
	testCategory = uuid.New()
)

func statementWallet(t *testing.T) *wallet.Wallet {
	t.Helper()

	w, err := wallet.New("Checking", "", "EUR", []uuid.UUID{testMethod})
	require.NoError(t, err)

	add := func(name string, amount int64, typ movement.Type, due time.Time) *movement.Movement {
		m, err := movement.New(movement.Params{
			Name:          name,
			Amount:        decimal.NewFromInt(amount),
			DueDate:       due,
			PaymentMethod: testMethod,
			Payee:         testPayee,
			Category:      testCategory,
			Type:          typ,
		})
		require.NoError(t, err)
		require.NoError(t, w.AddMovement(m))

		return m
	}

	salary := add("Salary", 1000, movement.TypeCredit, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, w.ConfirmMovement(salary, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	add("Rent January", 700, movement.TypeDebit, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	add("Rent February", 700, movement.TypeDebit, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))

	removed := add("Cancelled order", 50, movement.TypeDebit, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, w.RemoveMovement(removed))

	return w
}

func newService(t *testing.T, w *wallet.Wallet) *export.Service {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().GetWallet(gomock.Any(), w.ID()).Return(w, nil).AnyTimes()

	return export.NewService(wallet.NewService(repo))
}

func TestService_WriteStatement(t *testing.T) {
	w := statementWallet(t)
	svc := newService(t, w)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteStatement(context.Background(), &buf, w.ID(), nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4, "header plus three active movements")
	assert.Equal(t, []string{"due_date", "name", "type", "amount", "status", "accomplish_date", "kind"}, rows[0])

	assert.Equal(t, []string{"2024-01-01", "Salary", "CREDIT", "1000.00", "accomplished", "2024-01-01", "common"}, rows[1])
	assert.Equal(t, []string{"2024-01-05", "Rent January", "DEBIT", "-700.00", "pending", "", "common"}, rows[2])
	assert.Equal(t, []string{"2024-02-05", "Rent February", "DEBIT", "-700.00", "pending", "", "common"}, rows[3])
}

func TestService_WriteStatement_MonthFilter(t *testing.T) {
	w := statementWallet(t)
	svc := newService(t, w)

	month := wallet.YearMonth{Year: 2024, Month: time.February}

	var buf bytes.Buffer
	require.NoError(t, svc.WriteStatement(context.Background(), &buf, w.ID(), &month))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Rent February", rows[1][1])
}

func TestService_WriteStatement_WalletNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().GetWallet(gomock.Any(), gomock.Any()).Return(nil, wallet.ErrNotFound)

	svc := export.NewService(wallet.NewService(repo))

	var buf bytes.Buffer
	err := svc.WriteStatement(context.Background(), &buf, uuid.New(), nil)

	assert.ErrorIs(t, err, wallet.ErrNotFound)
	assert.Zero(t, buf.Len())
}

func TestService_WriteMonthlySummary(t *testing.T) {
	w := statementWallet(t)
	svc := newService(t, w)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteMonthlySummary(context.Background(), &buf, w.ID(), wallet.YearMonth{Year: 2024, Month: time.January}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"month", "inflow", "outflow", "net", "expected_inflow", "expected_outflow", "expected_net"}, rows[0])
	assert.Equal(t, []string{"2024-01", "1000.00", "0.00", "1000.00", "1000.00", "-700.00", "300.00"}, rows[1])
}
