package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
	calendarsvc "github.com/magabrotheeeer/monastery-admin/internal/services/calendar"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummyCalendarEvent) (models.CalendarEvent, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.CalendarEvent), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, id int64) (models.CalendarEvent, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.CalendarEvent), args.Error(1)
}

func (m *MockService) List(ctx context.Context, f models.CalendarFilter) (models.List[models.CalendarEvent], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.List[models.CalendarEvent]), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id int64, req models.DummyCalendarEvent) (models.CalendarEvent, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(models.CalendarEvent), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestList(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("период", func(t *testing.T) {
		m := new(MockService)
		m.On("List", mock.Anything, mock.MatchedBy(func(f models.CalendarFilter) bool {
			return f.From != nil && f.From.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) &&
				f.To != nil && f.To.Equal(time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)) &&
				f.Type == "feast"
		})).Return(models.List[models.CalendarEvent]{}, nil).Once()

		w := httptest.NewRecorder()
		New(logger, m).List(w, httptest.NewRequest(http.MethodGet, "/calendar?from=01-04-2026&to=30-04-2026&type=feast", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		m.AssertExpectations(t)
	})

	t.Run("перевернутый период", func(t *testing.T) {
		m := new(MockService)
		m.On("List", mock.Anything, mock.Anything).
			Return(models.List[models.CalendarEvent]{}, fmt.Errorf("calendar.List: %w", calendarsvc.ErrInvalidRange)).Once()

		w := httptest.NewRecorder()
		New(logger, m).List(w, httptest.NewRequest(http.MethodGet, "/calendar?from=30-04-2026&to=01-04-2026", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
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
			name: "праздник",
			body: `{"title":"Пасха","start_date":"12-04-2026","type":"feast","is_holiday":true}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(models.CalendarEvent{ID: 1, Title: "Пасха"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "неизвестный тип",
			body:           `{"title":"Пасха","start_date":"12-04-2026","type":"party"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "неверная дата",
			body: `{"title":"Пасха","start_date":"2026-04-12"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(models.CalendarEvent{}, fmt.Errorf("calendar.Create: %w", calendarsvc.ErrInvalidDate)).Once()
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockService)
			tt.setupMock(m)

			w := httptest.NewRecorder()
			New(logger, m).Create(w, httptest.NewRequest(http.MethodPost, "/calendar", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			m.AssertExpectations(t)
		})
	}
}
