package payment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
	"github.com/magabrotheeeer/monastery-admin/internal/services/treba"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetTrebaForUpdate(ctx context.Context, id int64) (models.Treba, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Treba), args.Error(1)
}
func (m *RepoMock) UpdateTrebaStatus(ctx context.Context, id int64, status models.TrebaStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *RepoMock) AppendHistory(ctx context.Context, trebaID int64, status models.TrebaStatus, comment string) (models.StatusHistoryEntry, error) {
	args := m.Called(ctx, trebaID, status, comment)
	return args.Get(0).(models.StatusHistoryEntry), args.Error(1)
}
func (m *RepoMock) GetTreba(ctx context.Context, id int64) (models.Treba, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Treba), args.Error(1)
}
func (m *RepoMock) CreatePayment(ctx context.Context, p *models.Payment) (int64, error) {
	args := m.Called(ctx, p)
	p.ID = args.Get(0).(int64)
	return p.ID, args.Error(1)
}
func (m *RepoMock) GetPayment(ctx context.Context, id int64) (models.Payment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Payment), args.Error(1)
}
func (m *RepoMock) GetPaymentForUpdate(ctx context.Context, id int64) (models.Payment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Payment), args.Error(1)
}
func (m *RepoMock) GetPaymentByExternalIDForUpdate(ctx context.Context, externalID string) (models.Payment, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(models.Payment), args.Error(1)
}
func (m *RepoMock) ListPayments(ctx context.Context, f models.PaymentFilter) ([]models.Payment, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Payment), args.Int(1), args.Error(2)
}
func (m *RepoMock) UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus, confirmedAt *time.Time) error {
	return m.Called(ctx, id, status, confirmedAt).Error(0)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) NotifyStatus(ctx context.Context, t models.Treba) {
	m.Called(ctx, t)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(repo *RepoMock, n *NotifierMock) *Service {
	inTx := func(ctx context.Context, fn func(Repository) error) error { return fn(repo) }
	svc := New(repo, inTx, n, "whsec", newNoopLogger())
	svc.now = func() time.Time { return time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreate(t *testing.T) {
	existing := int64(3)

	tests := []struct {
		name    string
		req     models.DummyPayment
		setup   func(r *RepoMock)
		wantErr error
		want    models.Payment
	}{
		{
			name: "defaults from treba",
			req:  models.DummyPayment{TrebaID: 1, Method: "card"},
			setup: func(r *RepoMock) {
				r.On("GetTreba", mock.Anything, int64(1)).
					Return(models.Treba{ID: 1, Price: 1500, Currency: "RUB", Status: models.TrebaStatusPending}, nil).Once()
				r.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
					return p.Amount == 1500 && p.Currency == "RUB" && p.Status == models.PaymentStatusPending
				})).Return(int64(10), nil).Once()
			},
			want: models.Payment{ID: 10, TrebaID: 1, Amount: 1500, Currency: "RUB", Status: models.PaymentStatusPending, Method: "card"},
		},
		{
			name: "treba already has payment",
			req:  models.DummyPayment{TrebaID: 1},
			setup: func(r *RepoMock) {
				r.On("GetTreba", mock.Anything, int64(1)).
					Return(models.Treba{ID: 1, Status: models.TrebaStatusPending, PaymentID: &existing}, nil).Once()
			},
			wantErr: ErrPaymentExists,
		},
		{
			name: "concurrent duplicate hits unique constraint",
			req:  models.DummyPayment{TrebaID: 1},
			setup: func(r *RepoMock) {
				r.On("GetTreba", mock.Anything, int64(1)).
					Return(models.Treba{ID: 1, Price: 100, Status: models.TrebaStatusPending}, nil).Once()
				r.On("CreatePayment", mock.Anything, mock.Anything).
					Return(int64(0), fmt.Errorf("storage.CreatePayment: %w", storage.ErrAlreadyExists)).Once()
			},
			wantErr: ErrPaymentExists,
		},
		{
			name: "free treba has nothing to pay",
			req:  models.DummyPayment{TrebaID: 4},
			setup: func(r *RepoMock) {
				r.On("GetTreba", mock.Anything, int64(4)).
					Return(models.Treba{ID: 4, Price: 0, Currency: "RUB", Status: models.TrebaStatusPending}, nil).Once()
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "negative amount",
			req:  models.DummyPayment{TrebaID: 4, Amount: -50},
			setup: func(r *RepoMock) {
				r.On("GetTreba", mock.Anything, int64(4)).
					Return(models.Treba{ID: 4, Price: 500, Currency: "RUB", Status: models.TrebaStatusPending}, nil).Once()
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "unknown treba",
			req:  models.DummyPayment{TrebaID: 2},
			setup: func(r *RepoMock) {
				r.On("GetTreba", mock.Anything, int64(2)).Return(models.Treba{}, storage.ErrNotFound).Once()
			},
			wantErr: storage.ErrNotFound,
		},
		{
			name: "cancelled treba",
			req:  models.DummyPayment{TrebaID: 2},
			setup: func(r *RepoMock) {
				r.On("GetTreba", mock.Anything, int64(2)).
					Return(models.Treba{ID: 2, Status: models.TrebaStatusCancelled}, nil).Once()
			},
			wantErr: treba.ErrTrebaCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setup(repo)
			svc := newService(repo, new(NotifierMock))

			got, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			repo.AssertExpectations(t)
		})
	}
}

func TestConfirm(t *testing.T) {
	t.Run("pending treba becomes paid", func(t *testing.T) {
		repo := new(RepoMock)
		n := new(NotifierMock)
		repo.On("GetPaymentForUpdate", mock.Anything, int64(10)).
			Return(models.Payment{ID: 10, TrebaID: 1, Status: models.PaymentStatusPending}, nil).Once()
		repo.On("GetTrebaForUpdate", mock.Anything, int64(1)).
			Return(models.Treba{ID: 1, Status: models.TrebaStatusPending}, nil).Twice()
		repo.On("UpdatePaymentStatus", mock.Anything, int64(10), models.PaymentStatusSucceeded, mock.AnythingOfType("*time.Time")).
			Return(nil).Once()
		repo.On("UpdateTrebaStatus", mock.Anything, int64(1), models.TrebaStatusPaid).Return(nil).Once()
		repo.On("AppendHistory", mock.Anything, int64(1), models.TrebaStatusPaid, "payment confirmed").
			Return(models.StatusHistoryEntry{ID: 2}, nil).Once()
		n.On("NotifyStatus", mock.Anything, mock.MatchedBy(func(tr models.Treba) bool {
			return tr.Status == models.TrebaStatusPaid
		})).Once()

		p, err := newService(repo, n).Confirm(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusSucceeded, p.Status)
		require.NotNil(t, p.ConfirmedAt)
		repo.AssertExpectations(t)
		n.AssertExpectations(t)
	})

	t.Run("already paid treba keeps status", func(t *testing.T) {
		repo := new(RepoMock)
		n := new(NotifierMock)
		repo.On("GetPaymentForUpdate", mock.Anything, int64(10)).
			Return(models.Payment{ID: 10, TrebaID: 1, Status: models.PaymentStatusPending}, nil).Once()
		repo.On("GetTrebaForUpdate", mock.Anything, int64(1)).
			Return(models.Treba{ID: 1, Status: models.TrebaStatusPaid}, nil).Once()
		repo.On("UpdatePaymentStatus", mock.Anything, int64(10), models.PaymentStatusSucceeded, mock.Anything).
			Return(nil).Once()

		_, err := newService(repo, n).Confirm(context.Background(), 10)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "AppendHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		n.AssertNotCalled(t, "NotifyStatus", mock.Anything, mock.Anything)
	})

	t.Run("already confirmed", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetPaymentForUpdate", mock.Anything, int64(10)).
			Return(models.Payment{ID: 10, Status: models.PaymentStatusSucceeded}, nil).Once()

		_, err := newService(repo, new(NotifierMock)).Confirm(context.Background(), 10)
		assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	})

	t.Run("failed payment", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetPaymentForUpdate", mock.Anything, int64(10)).
			Return(models.Payment{ID: 10, Status: models.PaymentStatusFailed}, nil).Once()

		_, err := newService(repo, new(NotifierMock)).Confirm(context.Background(), 10)
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("cancelled treba", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetPaymentForUpdate", mock.Anything, int64(10)).
			Return(models.Payment{ID: 10, TrebaID: 1, Status: models.PaymentStatusPending}, nil).Once()
		repo.On("GetTrebaForUpdate", mock.Anything, int64(1)).
			Return(models.Treba{ID: 1, Status: models.TrebaStatusCancelled}, nil).Once()

		_, err := newService(repo, new(NotifierMock)).Confirm(context.Background(), 10)
		assert.ErrorIs(t, err, treba.ErrTrebaCancelled)
		repo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVerifySignature(t *testing.T) {
	svc := newService(new(RepoMock), new(NotifierMock))
	body := []byte(`{"event":"payment.succeeded","object":{"id":"ext-1"}}`)

	assert.NoError(t, svc.VerifySignature(body, Sign("whsec", body)))
	assert.ErrorIs(t, svc.VerifySignature(body, Sign("other", body)), ErrInvalidSignature)
	assert.ErrorIs(t, svc.VerifySignature(body, "%%%"), ErrInvalidSignature)
	assert.ErrorIs(t, svc.VerifySignature(append(body, ' '), Sign("whsec", body)), ErrInvalidSignature)

	noSecret := New(new(RepoMock), nil, nil, "", newNoopLogger())
	assert.ErrorIs(t, noSecret.VerifySignature(body, Sign("", body)), ErrWebhookUnavailable)
}

func TestProcessWebhook(t *testing.T) {
	t.Run("succeeded confirms", func(t *testing.T) {
		repo := new(RepoMock)
		n := new(NotifierMock)
		repo.On("GetPaymentByExternalIDForUpdate", mock.Anything, "ext-1").
			Return(models.Payment{ID: 10, TrebaID: 1, Status: models.PaymentStatusPending, ExternalID: "ext-1"}, nil).Once()
		repo.On("GetTrebaForUpdate", mock.Anything, int64(1)).
			Return(models.Treba{ID: 1, Status: models.TrebaStatusPending}, nil)
		repo.On("UpdatePaymentStatus", mock.Anything, int64(10), models.PaymentStatusSucceeded, mock.Anything).Return(nil).Once()
		repo.On("UpdateTrebaStatus", mock.Anything, int64(1), models.TrebaStatusPaid).Return(nil).Once()
		repo.On("AppendHistory", mock.Anything, int64(1), models.TrebaStatusPaid, "payment confirmed").
			Return(models.StatusHistoryEntry{}, nil).Once()
		n.On("NotifyStatus", mock.Anything, mock.Anything).Once()

		err := newService(repo, n).ProcessWebhook(context.Background(), models.WebhookEvent{
			Event: models.WebhookPaymentSucceeded, Object: models.WebhookObject{ID: "ext-1"},
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("canceled marks failed", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetPaymentByExternalIDForUpdate", mock.Anything, "ext-2").
			Return(models.Payment{ID: 11, Status: models.PaymentStatusPending}, nil).Once()
		repo.On("UpdatePaymentStatus", mock.Anything, int64(11), models.PaymentStatusFailed, (*time.Time)(nil)).Return(nil).Once()

		err := newService(repo, new(NotifierMock)).ProcessWebhook(context.Background(), models.WebhookEvent{
			Event: models.WebhookPaymentCanceled, Object: models.WebhookObject{ID: "ext-2"},
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("succeeded for cancelled treba is acknowledged and marked failed", func(t *testing.T) {
		repo := new(RepoMock)
		n := new(NotifierMock)
		repo.On("GetPaymentByExternalIDForUpdate", mock.Anything, "ext-3").
			Return(models.Payment{ID: 12, TrebaID: 5, Status: models.PaymentStatusPending, ExternalID: "ext-3"}, nil).Once()
		repo.On("GetTrebaForUpdate", mock.Anything, int64(5)).
			Return(models.Treba{ID: 5, Status: models.TrebaStatusCancelled}, nil).Once()
		repo.On("UpdatePaymentStatus", mock.Anything, int64(12), models.PaymentStatusFailed, (*time.Time)(nil)).Return(nil).Once()

		err := newService(repo, n).ProcessWebhook(context.Background(), models.WebhookEvent{
			Event: models.WebhookPaymentSucceeded, Object: models.WebhookObject{ID: "ext-3"},
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, int64(12), models.PaymentStatusSucceeded, mock.Anything)
		n.AssertNotCalled(t, "NotifyStatus", mock.Anything, mock.Anything)
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetPaymentByExternalIDForUpdate", mock.Anything, "ext-1").
			Return(models.Payment{ID: 10, Status: models.PaymentStatusSucceeded}, nil).Once()

		err := newService(repo, new(NotifierMock)).ProcessWebhook(context.Background(), models.WebhookEvent{
			Event: models.WebhookPaymentSucceeded, Object: models.WebhookObject{ID: "ext-1"},
		})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown payment", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetPaymentByExternalIDForUpdate", mock.Anything, "nope").
			Return(models.Payment{}, storage.ErrNotFound).Once()

		err := newService(repo, new(NotifierMock)).ProcessWebhook(context.Background(), models.WebhookEvent{
			Event: models.WebhookPaymentSucceeded, Object: models.WebhookObject{ID: "nope"},
		})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("other events ignored", func(t *testing.T) {
		repo := new(RepoMock)
		err := newService(repo, new(NotifierMock)).ProcessWebhook(context.Background(), models.WebhookEvent{
			Event: "refund.succeeded", Object: models.WebhookObject{ID: "x"},
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
