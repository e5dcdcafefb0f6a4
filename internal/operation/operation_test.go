package operation_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sversluys/walleto/internal/operation"
)

func validParams() operation.Params {
	return operation.Params{
		Name:          "Groceries",
		Description:   "Weekly shop",
		Amount:        decimal.NewFromInt(-50),
		DueDate:       time.Date(2024, 1, 15, 14, 30, 0, 0, time.Local),
		PaymentMethod: uuid.New(),
		Payee:         uuid.New(),
		Category:      uuid.New(),
	}
}

func TestNew(t *testing.T) {
	type testCase struct {
		name    string
		mutate  func(p *operation.Params)
		wantErr error
	}

	tests := []testCase{
		{
			name:   "Success",
			mutate: func(p *operation.Params) {},
		},
		{
			name:   "EmptyDescriptionAllowed",
			mutate: func(p *operation.Params) { p.Description = "" },
		},
		{
			name:    "NameTooShort",
			mutate:  func(p *operation.Params) { p.Name = "ab" },
			wantErr: operation.ErrNameSize,
		},
		{
			name:    "NameTooLong",
			mutate:  func(p *operation.Params) { p.Name = strings.Repeat("x", 31) },
			wantErr: operation.ErrNameSize,
		},
		{
			name:    "DescriptionTooShort",
			mutate:  func(p *operation.Params) { p.Description = "ab" },
			wantErr: operation.ErrDescriptionSize,
		},
		{
			name:    "DescriptionTooLong",
			mutate:  func(p *operation.Params) { p.Description = strings.Repeat("x", 251) },
			wantErr: operation.ErrDescriptionSize,
		},
		{
			name:    "ZeroAmount",
			mutate:  func(p *operation.Params) { p.Amount = decimal.Zero },
			wantErr: operation.ErrZeroAmount,
		},
		{
			name:    "ZeroDueDate",
			mutate:  func(p *operation.Params) { p.DueDate = time.Time{} },
			wantErr: operation.ErrNilArgument,
		},
		{
			name:    "NilPaymentMethod",
			mutate:  func(p *operation.Params) { p.PaymentMethod = uuid.Nil },
			wantErr: operation.ErrNilArgument,
		},
		{
			name:    "NilPayee",
			mutate:  func(p *operation.Params) { p.Payee = uuid.Nil },
			wantErr: operation.ErrNilArgument,
		},
		{
			name:    "NilCategory",
			mutate:  func(p *operation.Params) { p.Category = uuid.Nil },
			wantErr: operation.ErrNilArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			got, err := operation.New(params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID())
			assert.Equal(t, params.Name, got.Name())
		})
	}
}

func TestNew_NormalizesDueDate(t *testing.T) {
	params := validParams()
	params.DueDate = time.Date(2024, 3, 10, 23, 45, 12, 999, time.Local)

	got, err := operation.New(params)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got.DueDate())
}

func TestOperation_AddAttachment(t *testing.T) {
	op, err := operation.New(validParams())
	require.NoError(t, err)

	require.NoError(t, op.AddAttachment(operation.Attachment{Name: "receipt", URI: "file://a"}))
	require.NoError(t, op.AddAttachment(operation.Attachment{Name: "invoice", URI: "file://b"}))
	assert.Len(t, op.Attachments(), 2)

	// Re-adding a URI keeps the latest entry instead of duplicating it.
	require.NoError(t, op.AddAttachment(operation.Attachment{Name: "receipt v2", URI: "file://a"}))

	got := op.Attachments()
	require.Len(t, got, 2)
	assert.Equal(t, "receipt v2", got[0].Name)

	err = op.AddAttachment(operation.Attachment{Name: "no uri"})
	assert.ErrorIs(t, err, operation.ErrNilArgument)
}

func TestOperation_Clone(t *testing.T) {
	op, err := operation.New(validParams())
	require.NoError(t, err)
	require.NoError(t, op.AddAttachment(operation.Attachment{Name: "receipt", URI: "file://a"}))

	clone := op.Clone()
	require.True(t, op.DeepEqual(&clone))

	require.NoError(t, clone.AddAttachment(operation.Attachment{Name: "other", URI: "file://b"}))
	require.NoError(t, clone.UpdateName("Renamed"))

	assert.Len(t, op.Attachments(), 1)
	assert.Equal(t, "Groceries", op.Name())
	assert.True(t, op.Equal(&clone), "clone keeps the identity")
	assert.False(t, op.DeepEqual(&clone))
}

func TestOperation_Reissue(t *testing.T) {
	op, err := operation.New(validParams())
	require.NoError(t, err)

	original := op.ID()
	op.Reissue()

	assert.NotEqual(t, original, op.ID())
}

func TestOperation_Updates(t *testing.T) {
	op, err := operation.New(validParams())
	require.NoError(t, err)

	assert.ErrorIs(t, op.UpdateName("ab"), operation.ErrNameSize)
	assert.ErrorIs(t, op.UpdateAmount(decimal.Zero), operation.ErrZeroAmount)
	assert.ErrorIs(t, op.UpdateDueDate(time.Time{}), operation.ErrNilArgument)
	assert.ErrorIs(t, op.UpdatePaymentMethod(uuid.Nil), operation.ErrNilArgument)
	assert.ErrorIs(t, op.UpdatePayee(uuid.Nil), operation.ErrNilArgument)
	assert.ErrorIs(t, op.UpdateCategory(uuid.Nil), operation.ErrNilArgument)

	require.NoError(t, op.UpdateDescription(""))
	assert.Empty(t, op.Description())

	require.NoError(t, op.UpdateDueDate(time.Date(2025, 6, 1, 18, 0, 0, 0, time.Local)))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), op.DueDate())
}

func TestOperation_Before(t *testing.T) {
	early, err := operation.New(validParams())
	require.NoError(t, err)

	lateParams := validParams()
	lateParams.DueDate = lateParams.DueDate.AddDate(0, 1, 0)
	late, err := operation.New(lateParams)
	require.NoError(t, err)

	assert.True(t, early.Before(&late))
	assert.False(t, late.Before(&early))
}

func TestRestore(t *testing.T) {
	id := uuid.New()
	got := operation.Restore(operation.RestoreParams{
		ID:            id,
		Name:          "ab", // shorter than New allows; Restore does not validate
		Amount:        decimal.NewFromInt(10),
		DueDate:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: uuid.New(),
		Payee:         uuid.New(),
		Category:      uuid.New(),
		Attachments:   []operation.Attachment{{Name: "doc", URI: "file://a"}},
	})

	assert.Equal(t, id, got.ID())
	assert.Equal(t, "ab", got.Name())
	assert.Len(t, got.Attachments(), 1)
}
