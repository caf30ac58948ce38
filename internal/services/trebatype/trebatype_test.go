package trebatype

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateTrebaType(ctx context.Context, t *models.TrebaType) (int64, error) {
	args := m.Called(ctx, t)
	t.ID = args.Get(0).(int64)
	return t.ID, args.Error(1)
}
func (m *RepoMock) GetTrebaType(ctx context.Context, id int64) (models.TrebaType, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.TrebaType), args.Error(1)
}
func (m *RepoMock) GetActiveTrebaTypeByName(ctx context.Context, name string) (models.TrebaType, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(models.TrebaType), args.Error(1)
}
func (m *RepoMock) ListTrebaTypes(ctx context.Context, activeOnly bool) ([]models.TrebaType, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]models.TrebaType), args.Error(1)
}
func (m *RepoMock) UpdateTrebaType(ctx context.Context, t *models.TrebaType) error {
	return m.Called(ctx, t).Error(0)
}
func (m *RepoMock) DeleteTrebaType(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	if fill, ok := args.Get(0).(func(any)); ok {
		fill(result)
		return true, args.Error(1)
	}
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}
func (m *CacheMock) InvalidatePrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLookupActive(t *testing.T) {
	molebn := models.TrebaType{ID: 1, Name: "Молебен", BasePrice: 50, Currency: "RUB", IsActive: true}

	tests := []struct {
		name      string
		setup     func(r *RepoMock, c *CacheMock)
		wantNil   bool
		wantPrice float64
		wantErr   bool
	}{
		{
			name: "cache hit",
			setup: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "treba_type:молебен", mock.Anything).
					Return(func(out any) { *out.(*models.TrebaType) = molebn }, nil).Once()
			},
			wantPrice: 50,
		},
		{
			name: "cache miss loads and stores",
			setup: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "treba_type:молебен", mock.Anything).Return(false, nil).Once()
				r.On("GetActiveTrebaTypeByName", mock.Anything, "Молебен").Return(molebn, nil).Once()
				c.On("Set", mock.Anything, "treba_type:молебен", molebn, time.Duration(0)).Return(nil).Once()
			},
			wantPrice: 50,
		},
		{
			name: "cache error falls back to repository",
			setup: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "treba_type:молебен", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("GetActiveTrebaTypeByName", mock.Anything, "Молебен").Return(molebn, nil).Once()
				c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
			},
			wantPrice: 50,
		},
		{
			name: "unknown type",
			setup: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
				r.On("GetActiveTrebaTypeByName", mock.Anything, "Молебен").
					Return(models.TrebaType{}, storage.ErrNotFound).Once()
			},
			wantNil: true,
		},
		{
			name: "repository error",
			setup: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
				r.On("GetActiveTrebaTypeByName", mock.Anything, "Молебен").
					Return(models.TrebaType{}, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			c := new(CacheMock)
			tt.setup(repo, c)

			svc := New(repo, c, newNoopLogger())
			got, err := svc.LookupActive(context.Background(), "Молебен")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, tt.wantPrice, got.BasePrice)
			}
			repo.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestLookupActive_NoCache(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetActiveTrebaTypeByName", mock.Anything, "Панихида").
		Return(models.TrebaType{Name: "Панихида", BasePrice: 40, IsActive: true}, nil).Once()

	svc := New(repo, nil, newNoopLogger())
	got, err := svc.LookupActive(context.Background(), "Панихида")
	require.NoError(t, err)
	assert.Equal(t, float64(40), got.BasePrice)
}

func TestCreate_DefaultsAndInvalidates(t *testing.T) {
	repo := new(RepoMock)
	c := new(CacheMock)

	repo.On("CreateTrebaType", mock.Anything, mock.MatchedBy(func(tt *models.TrebaType) bool {
		return tt.Name == "Сорокоуст" && tt.Currency == "RUB" && tt.IsActive
	})).Return(int64(5), nil).Once()
	c.On("InvalidatePrefix", mock.Anything, "treba_type:").Return(nil).Once()

	svc := New(repo, c, newNoopLogger())
	got, err := svc.Create(context.Background(), models.DummyTrebaType{Name: " Сорокоуст ", BasePrice: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	repo.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestUpdate_Deactivate(t *testing.T) {
	repo := new(RepoMock)
	c := new(CacheMock)
	inactive := false

	repo.On("UpdateTrebaType", mock.Anything, mock.MatchedBy(func(tt *models.TrebaType) bool {
		return tt.ID == 3 && !tt.IsActive && tt.Currency == "EUR"
	})).Return(nil).Once()
	c.On("InvalidatePrefix", mock.Anything, "treba_type:").Return(nil).Once()

	svc := New(repo, c, newNoopLogger())
	got, err := svc.Update(context.Background(), 3, models.DummyTrebaType{
		Name: "Панихида", BasePrice: 10, Currency: "eur", IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestDelete_NotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("DeleteTrebaType", mock.Anything, int64(9)).Return(storage.ErrNotFound).Once()

	svc := New(repo, nil, newNoopLogger())
	err := svc.Delete(context.Background(), 9)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
