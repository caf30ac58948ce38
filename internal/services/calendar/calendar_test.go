package calendar

import (
	"context"
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

func (m *RepoMock) CreateCalendarEvent(ctx context.Context, e *models.CalendarEvent) (int64, error) {
	args := m.Called(ctx, e)
	e.ID = args.Get(0).(int64)
	return e.ID, args.Error(1)
}
func (m *RepoMock) GetCalendarEvent(ctx context.Context, id int64) (models.CalendarEvent, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.CalendarEvent), args.Error(1)
}
func (m *RepoMock) ListCalendarEvents(ctx context.Context, f models.CalendarFilter) ([]models.CalendarEvent, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.CalendarEvent), args.Int(1), args.Error(2)
}
func (m *RepoMock) UpdateCalendarEvent(ctx context.Context, e *models.CalendarEvent) error {
	return m.Called(ctx, e).Error(0)
}
func (m *RepoMock) DeleteCalendarEvent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name     string
		req      models.DummyCalendarEvent
		mockCall bool
		wantErr  error
		check    func(t *testing.T, e models.CalendarEvent)
	}{
		{
			name:     "single day defaults type",
			req:      models.DummyCalendarEvent{Title: " Рождество Христово ", StartDate: "07-01-2026", IsHoliday: true},
			mockCall: true,
			check: func(t *testing.T, e models.CalendarEvent) {
				assert.Equal(t, "Рождество Христово", e.Title)
				assert.Equal(t, models.EventOther, e.Type)
				assert.Equal(t, time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), e.StartDate)
				assert.Nil(t, e.EndDate)
			},
		},
		{
			name:     "range",
			req:      models.DummyCalendarEvent{Title: "Великий пост", StartDate: "23-02-2026", EndDate: "11-04-2026", Type: models.EventFast},
			mockCall: true,
			check: func(t *testing.T, e models.CalendarEvent) {
				require.NotNil(t, e.EndDate)
				assert.Equal(t, time.April, e.EndDate.Month())
			},
		},
		{
			name:    "bad start",
			req:     models.DummyCalendarEvent{Title: "x", StartDate: "2026-01-07"},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "end before start",
			req:     models.DummyCalendarEvent{Title: "x", StartDate: "10-01-2026", EndDate: "09-01-2026"},
			wantErr: ErrInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			if tt.mockCall {
				repo.On("CreateCalendarEvent", mock.Anything, mock.AnythingOfType("*models.CalendarEvent")).Return(int64(1), nil).Once()
			}
			svc := New(repo, newNoopLogger())

			e, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), e.ID)
			tt.check(t, e)
			repo.AssertExpectations(t)
		})
	}
}

func TestList_InvertedRange(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newNoopLogger())
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	_, err := svc.List(context.Background(), models.CalendarFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidRange)
	repo.AssertNotCalled(t, "ListCalendarEvents", mock.Anything, mock.Anything)
}

func TestList(t *testing.T) {
	repo := new(RepoMock)
	f := models.CalendarFilter{Type: models.EventFeast, Page: models.NewPage(10, 0, "", false)}
	repo.On("ListCalendarEvents", mock.Anything, f).Return([]models.CalendarEvent{{ID: 1}, {ID: 2}}, 5, nil).Once()

	list, err := New(repo, newNoopLogger()).List(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 5, list.Total)
	assert.Equal(t, 10, list.Limit)
}

func TestUpdateAndDelete_NotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("UpdateCalendarEvent", mock.Anything, mock.Anything).Return(storage.ErrNotFound).Once()
	repo.On("DeleteCalendarEvent", mock.Anything, int64(9)).Return(storage.ErrNotFound).Once()
	svc := New(repo, newNoopLogger())

	_, err := svc.Update(context.Background(), 9, models.DummyCalendarEvent{Title: "x", StartDate: "01-01-2026"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 9), storage.ErrNotFound)
}
