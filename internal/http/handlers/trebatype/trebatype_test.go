package trebatype

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummyTrebaType) (models.TrebaType, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.TrebaType), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, id int64) (models.TrebaType, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.TrebaType), args.Error(1)
}

func (m *MockService) List(ctx context.Context, activeOnly bool) ([]models.TrebaType, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]models.TrebaType), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id int64, req models.DummyTrebaType) (models.TrebaType, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(models.TrebaType), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name: "успешно",
			body: `{"name":"Сорокоуст","base_price":400}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, models.DummyTrebaType{Name: "Сорокоуст", BasePrice: 400}).
					Return(models.TrebaType{ID: 1, Name: "Сорокоуст", BasePrice: 400, IsActive: true}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "отрицательная цена",
			body:           `{"name":"Сорокоуст","base_price":-1}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "имя занято",
			body: `{"name":"Сорокоуст","base_price":400}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(models.TrebaType{}, fmt.Errorf("trebatype.Create: %w", storage.ErrAlreadyExists)).Once()
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockService)
			tt.setupMock(m)

			w := httptest.NewRecorder()
			New(logger, m).Create(w, httptest.NewRequest(http.MethodPost, "/treba-types", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			m.AssertExpectations(t)
		})
	}
}

func TestListActiveOnly(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := new(MockService)
	m.On("List", mock.Anything, true).Return([]models.TrebaType{{ID: 1, Name: "Молебен"}}, nil).Once()

	w := httptest.NewRecorder()
	New(logger, m).List(w, httptest.NewRequest(http.MethodGet, "/treba-types?active=true", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":1`)
	m.AssertExpectations(t)
}

func TestDeleteNotFound(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := new(MockService)
	m.On("Delete", mock.Anything, int64(9)).Return(fmt.Errorf("trebatype.Delete: %w", storage.ErrNotFound)).Once()

	w := httptest.NewRecorder()
	New(logger, m).Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/treba-types/9", nil), "9"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	m.AssertExpectations(t)
}
