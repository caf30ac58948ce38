package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateNotification(ctx context.Context, n *models.Notification) (int64, error) {
	args := m.Called(ctx, n)
	n.ID = args.Get(0).(int64)
	return n.ID, args.Error(1)
}
func (m *RepoMock) ListNotifications(ctx context.Context, f models.NotificationFilter) ([]models.Notification, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Notification), args.Int(1), args.Error(2)
}
func (m *RepoMock) CountUnread(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) MarkNotificationRead(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) DeleteNotification(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		req     models.DummyNotification
		setup   func(r *RepoMock, p *PublisherMock)
		wantErr bool
	}{
		{
			name: "with email publishes message",
			req:  models.DummyNotification{Email: "a@example.org", Title: "Треба принята", Message: "Спаси Господи"},
			setup: func(r *RepoMock, p *PublisherMock) {
				r.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
					return n.Type == models.NotificationSystem
				})).Return(int64(11), nil).Once()
				p.On("Publish", "email", models.EmailMessage{
					NotificationID: 11, To: "a@example.org", Subject: "Треба принята", Body: "Спаси Господи",
				}).Return(nil).Once()
			},
		},
		{
			name: "without email only stores",
			req:  models.DummyNotification{Title: "Новая треба", Message: "№1", Type: models.NotificationTrebaCreated},
			setup: func(r *RepoMock, _ *PublisherMock) {
				r.On("CreateNotification", mock.Anything, mock.Anything).Return(int64(12), nil).Once()
			},
		},
		{
			name: "publish failure is not an error",
			req:  models.DummyNotification{Email: "a@example.org", Title: "t", Message: "m"},
			setup: func(r *RepoMock, p *PublisherMock) {
				r.On("CreateNotification", mock.Anything, mock.Anything).Return(int64(13), nil).Once()
				p.On("Publish", "email", mock.Anything).Return(errors.New("channel closed")).Once()
			},
		},
		{
			name: "storage failure",
			req:  models.DummyNotification{Email: "a@example.org", Title: "t", Message: "m"},
			setup: func(r *RepoMock, _ *PublisherMock) {
				r.On("CreateNotification", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			pub := new(PublisherMock)
			tt.setup(repo, pub)

			svc := New(repo, pub, newNoopLogger())
			n, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NotZero(t, n.ID)
			}
			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestList(t *testing.T) {
	repo := new(RepoMock)
	f := models.NotificationFilter{UnreadOnly: true, Page: models.NewPage(10, 0, "", false)}
	repo.On("ListNotifications", mock.Anything, f).
		Return([]models.Notification{{ID: 1}, {ID: 2}}, 5, nil).Once()

	svc := New(repo, nil, newNoopLogger())
	list, err := svc.List(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 5, list.Total)
	assert.Equal(t, 10, list.Limit)
	assert.Len(t, list.Items, 2)
}

func TestMarkRead_NotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("MarkNotificationRead", mock.Anything, int64(3)).Return(storage.ErrNotFound).Once()

	svc := New(repo, nil, newNoopLogger())
	assert.ErrorIs(t, svc.MarkRead(context.Background(), 3), storage.ErrNotFound)
}
