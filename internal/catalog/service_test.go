package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sversluys/walleto/internal/catalog"
	"github.com/sversluys/walleto/internal/operation"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		kind      catalog.Kind
		entryName string
		setupMock func(m *catalog.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:      "Success",
			kind:      catalog.KindPayee,
			entryName: "Supermarket",
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					CreateEntry(gomock.Any(), catalog.KindPayee, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ catalog.Kind, e *catalog.Entry) error {
						e.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:      "UnknownKind",
			kind:      "colour",
			entryName: "Supermarket",
			wantErr:   errors.New("unknown catalog kind"),
		},
		{
			name:      "ShortName",
			kind:      catalog.KindCategory,
			entryName: "ab",
			wantErr:   operation.ErrNameSize,
		},
		{
			name:      "RepoError",
			kind:      catalog.KindFormOfPayment,
			entryName: "Debit card",
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					CreateEntry(gomock.Any(), catalog.KindFormOfPayment, gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := catalog.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := catalog.NewService(repo)
			got, err := svc.Create(context.Background(), tt.kind, tt.entryName)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, tt.entryName, got.Name)
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := catalog.NewMockRepository(ctrl)
	repo.EXPECT().
		ListEntries(gomock.Any(), catalog.KindCategory).
		Return([]*catalog.Entry{{ID: uuid.New(), Name: "Housing"}}, nil)

	svc := catalog.NewService(repo)

	got, err := svc.List(context.Background(), catalog.KindCategory)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.List(context.Background(), "colour")
	assert.Error(t, err)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := catalog.NewMockRepository(ctrl)
	repo.EXPECT().
		DeleteEntry(gomock.Any(), catalog.KindPayee, id).
		Return(catalog.ErrNotFound)

	svc := catalog.NewService(repo)

	assert.ErrorIs(t, svc.Delete(context.Background(), catalog.KindPayee, id), catalog.ErrNotFound)
	assert.Error(t, svc.Delete(context.Background(), "colour", id))
}
