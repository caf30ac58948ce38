package read

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
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

func (m *MockService) Get(ctx context.Context, id int64) (models.Treba, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Treba), args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение",
			id:   "123",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(123)).Return(models.Treba{
					ID: 123, Type: "Панихида", Status: models.TrebaStatusPaid,
					History: []models.StatusHistoryEntry{{ID: 1, Status: models.TrebaStatusPending}},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"type":"Панихида"`,
		},
		{
			name:           "некорректный id",
			id:             "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid id"}`,
		},
		{
			name: "не найдена",
			id:   "404",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(404)).
					Return(models.Treba{}, fmt.Errorf("treba.Get: %w", storage.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"record not found"`,
		},
		{
			name: "ошибка сервиса",
			id:   "777",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(777)).Return(models.Treba{}, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not read treba"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodGet, "/treby/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
