package reminder

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
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListTrebyPeriodEnded(ctx context.Context, now time.Time, limit int) ([]models.Treba, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]models.Treba), args.Error(1)
}

func (m *MockRepository) MarkPeriodReminded(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, req models.DummyNotification) {
	m.Called(ctx, req)
}

func newService(repo *MockRepository, notifier *MockNotifier, now time.Time) *Service {
	s := New(repo, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return now }
	return s
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("напоминание и отметка", func(t *testing.T) {
		repo, notifier := new(MockRepository), new(MockNotifier)
		repo.On("ListTrebyPeriodEnded", mock.Anything, now, batchSize).Return([]models.Treba{
			{ID: 7, Type: "Сорокоуст", Period: models.PeriodFortyDays},
			{ID: 8, Type: "Молебен", Period: models.PeriodWeek},
		}, nil).Once()
		notifier.On("Notify", mock.Anything, mock.MatchedBy(func(r models.DummyNotification) bool {
			return r.Type == models.NotificationTrebaStatus && r.Email == ""
		})).Twice()
		repo.On("MarkPeriodReminded", mock.Anything, int64(7)).Return(nil).Once()
		repo.On("MarkPeriodReminded", mock.Anything, int64(8)).Return(nil).Once()

		n, err := newService(repo, notifier, now).RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("нечего напоминать", func(t *testing.T) {
		repo, notifier := new(MockRepository), new(MockNotifier)
		repo.On("ListTrebyPeriodEnded", mock.Anything, now, batchSize).Return([]models.Treba{}, nil).Once()

		n, err := newService(repo, notifier, now).RunOnce(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("полная пачка читается повторно", func(t *testing.T) {
		repo, notifier := new(MockRepository), new(MockNotifier)
		full := make([]models.Treba, batchSize)
		for i := range full {
			full[i] = models.Treba{ID: int64(i + 1)}
		}
		repo.On("ListTrebyPeriodEnded", mock.Anything, now, batchSize).Return(full, nil).Once()
		repo.On("ListTrebyPeriodEnded", mock.Anything, now, batchSize).Return([]models.Treba{}, nil).Once()
		repo.On("MarkPeriodReminded", mock.Anything, mock.Anything).Return(nil)
		notifier.On("Notify", mock.Anything, mock.Anything)

		n, err := newService(repo, notifier, now).RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, batchSize, n)
		repo.AssertExpectations(t)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		repo, notifier := new(MockRepository), new(MockNotifier)
		repo.On("ListTrebyPeriodEnded", mock.Anything, now, batchSize).
			Return([]models.Treba(nil), errors.New("connection reset")).Once()

		_, err := newService(repo, notifier, now).RunOnce(context.Background())
		assert.ErrorContains(t, err, "connection reset")
	})
}

func TestRun_StopsOnCancel(t *testing.T) {
	repo, notifier := new(MockRepository), new(MockNotifier)
	repo.On("ListTrebyPeriodEnded", mock.Anything, mock.Anything, batchSize).Return([]models.Treba{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		newService(repo, notifier, time.Now()).Run(ctx, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
