// Package payment реализует оплату треб: создание платежа, подтверждение
// администратором или уведомлением провайдера.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/monastery-admin/internal/metrics"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
	"github.com/magabrotheeeer/monastery-admin/internal/services/treba"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

const commentConfirmed = "payment confirmed"

var (
	ErrPaymentExists      = errors.New("payment for this treba already exists")
	ErrAlreadyConfirmed   = errors.New("payment is already confirmed")
	ErrNotPending         = errors.New("payment is not pending")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrWebhookUnavailable = errors.New("webhook secret is not configured")
	ErrInvalidAmount      = errors.New("payment amount must be positive")
)

// Repository определяет методы хранилища, используемые платежами.
type Repository interface {
	treba.TransitionRepository
	GetTreba(ctx context.Context, id int64) (models.Treba, error)
	CreatePayment(ctx context.Context, p *models.Payment) (int64, error)
	GetPayment(ctx context.Context, id int64) (models.Payment, error)
	GetPaymentForUpdate(ctx context.Context, id int64) (models.Payment, error)
	GetPaymentByExternalIDForUpdate(ctx context.Context, externalID string) (models.Payment, error)
	ListPayments(ctx context.Context, f models.PaymentFilter) ([]models.Payment, int, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus, confirmedAt *time.Time) error
}

// TxFunc выполняет fn в транзакции.
type TxFunc func(ctx context.Context, fn func(repo Repository) error) error

// StatusNotifier сообщает о смене статуса требы.
type StatusNotifier interface {
	NotifyStatus(ctx context.Context, t models.Treba)
}

// Service реализует бизнес-логику платежей.
type Service struct {
	repo          Repository
	inTx          TxFunc
	notifier      StatusNotifier
	webhookSecret []byte
	log           *slog.Logger
	now           func() time.Time
}

// New создает Service.
func New(repo Repository, inTx TxFunc, notifier StatusNotifier, webhookSecret string, log *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		inTx:          inTx,
		notifier:      notifier,
		webhookSecret: []byte(webhookSecret),
		log:           log,
		now:           time.Now,
	}
}

// Create создает платеж по требе. Сумма и валюта по умолчанию берутся из требы.
func (s *Service) Create(ctx context.Context, req models.DummyPayment) (models.Payment, error) {
	const op = "payment.Create"

	t, err := s.repo.GetTreba(ctx, req.TrebaID)
	if err != nil {
		return models.Payment{}, fmt.Errorf("%s: %w", op, err)
	}
	if t.Status == models.TrebaStatusCancelled {
		return models.Payment{}, treba.ErrTrebaCancelled
	}
	if t.PaymentID != nil {
		return models.Payment{}, ErrPaymentExists
	}

	p := models.Payment{
		TrebaID:    t.ID,
		Amount:     req.Amount,
		Currency:   strings.ToUpper(req.Currency),
		Status:     models.PaymentStatusPending,
		Method:     req.Method,
		ExternalID: req.ExternalID,
	}
	if p.Amount == 0 {
		p.Amount = t.Price
	}
	if p.Currency == "" {
		p.Currency = t.Currency
	}
	// Треба бесплатного вида стоит 0, платить по ней нечего.
	if p.Amount <= 0 {
		return models.Payment{}, ErrInvalidAmount
	}

	if _, err = s.repo.CreatePayment(ctx, &p); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Payment{}, fmt.Errorf("%w: %s", ErrPaymentExists, err)
		}
		return models.Payment{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("payment created", slog.Int64("id", p.ID), slog.Int64("treba_id", p.TrebaID), slog.Int64("amount", p.Amount))
	return p, nil
}

// Get возвращает платеж.
func (s *Service) Get(ctx context.Context, id int64) (models.Payment, error) {
	const op = "payment.Get"

	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return models.Payment{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// List возвращает страницу платежей.
func (s *Service) List(ctx context.Context, f models.PaymentFilter) (models.List[models.Payment], error) {
	const op = "payment.List"

	items, total, err := s.repo.ListPayments(ctx, f)
	if err != nil {
		return models.List[models.Payment]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[models.Payment]{Items: items, Total: total, Limit: f.Page.Limit, Offset: f.Page.Offset}, nil
}

// Confirm подтверждает платеж и в той же транзакции переводит требу в статус paid.
func (s *Service) Confirm(ctx context.Context, id int64) (models.Payment, error) {
	const op = "payment.Confirm"

	var (
		p       models.Payment
		updated *models.Treba
	)
	err := s.inTx(ctx, func(repo Repository) error {
		var err error
		if p, err = repo.GetPaymentForUpdate(ctx, id); err != nil {
			return err
		}
		updated, err = s.confirm(ctx, repo, &p)
		return err
	})
	if err != nil {
		return models.Payment{}, fmt.Errorf("%s: %w", op, err)
	}
	s.afterConfirm(ctx, p, updated)
	return p, nil
}

// confirm переводит платеж в succeeded. Треба переводится в paid, только если она
// ожидает оплаты; оплаченная ранее или совершенная треба не меняется.
func (s *Service) confirm(ctx context.Context, repo Repository, p *models.Payment) (*models.Treba, error) {
	switch p.Status {
	case models.PaymentStatusSucceeded:
		return nil, ErrAlreadyConfirmed
	case models.PaymentStatusPending:
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotPending, p.Status)
	}

	t, err := repo.GetTrebaForUpdate(ctx, p.TrebaID)
	if err != nil {
		return nil, err
	}
	if t.Status == models.TrebaStatusCancelled {
		return nil, treba.ErrTrebaCancelled
	}

	now := s.now()
	if err := repo.UpdatePaymentStatus(ctx, p.ID, models.PaymentStatusSucceeded, &now); err != nil {
		return nil, err
	}
	p.Status = models.PaymentStatusSucceeded
	p.ConfirmedAt = &now

	if t.Status != models.TrebaStatusPending {
		return nil, nil
	}
	t, _, err = treba.Transition(ctx, repo, t.ID, models.TrebaStatusPaid, commentConfirmed)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) afterConfirm(ctx context.Context, p models.Payment, t *models.Treba) {
	s.log.Info("payment confirmed", slog.Int64("id", p.ID), slog.Int64("treba_id", p.TrebaID))
	metrics.PaymentsConfirmed.Inc()
	if t != nil {
		metrics.StatusTransitions.WithLabelValues(string(t.Status)).Inc()
	}
	if t != nil && s.notifier != nil {
		s.notifier.NotifyStatus(ctx, *t)
	}
}

// VerifySignature проверяет подпись HMAC-SHA256 (base64) тела уведомления.
func (s *Service) VerifySignature(body []byte, signature string) error {
	if len(s.webhookSecret) == 0 {
		return ErrWebhookUnavailable
	}
	got, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, s.webhookSecret)
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign возвращает подпись тела; используется провайдером и в тестах.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ProcessWebhook обрабатывает событие провайдера. Повторная доставка уже
// обработанного события ничего не меняет. Неизвестные события игнорируются.
func (s *Service) ProcessWebhook(ctx context.Context, ev models.WebhookEvent) error {
	const op = "payment.ProcessWebhook"

	log := s.log.With(slog.String("op", op), slog.String("event", ev.Event), slog.String("external_id", ev.Object.ID))

	switch ev.Event {
	case models.WebhookPaymentSucceeded, models.WebhookPaymentCanceled:
	default:
		log.Info("webhook event ignored")
		return nil
	}

	var (
		p         models.Payment
		updated   *models.Treba
		changed   bool
		confirmed bool
	)
	err := s.inTx(ctx, func(repo Repository) error {
		var err error
		if p, err = repo.GetPaymentByExternalIDForUpdate(ctx, ev.Object.ID); err != nil {
			return err
		}
		if p.Status != models.PaymentStatusPending {
			return nil
		}
		changed = true
		if ev.Event == models.WebhookPaymentSucceeded {
			updated, err = s.confirm(ctx, repo, &p)
			if err == nil {
				confirmed = true
				return nil
			}
			// Провайдер повторяет доставку при любом ответе кроме 2xx, поэтому
			// оплату отмененной требы фиксируем как неуспешную и подтверждаем прием.
			if !errors.Is(err, treba.ErrTrebaCancelled) {
				return err
			}
			log.Warn("payment succeeded for cancelled treba", slog.Int64("id", p.ID), slog.Int64("treba_id", p.TrebaID))
		}
		p.Status = models.PaymentStatusFailed
		return repo.UpdatePaymentStatus(ctx, p.ID, models.PaymentStatusFailed, nil)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !changed {
		log.Info("webhook for processed payment skipped", slog.String("status", string(p.Status)))
		return nil
	}
	if confirmed {
		s.afterConfirm(ctx, p, updated)
	} else {
		log.Info("payment marked failed", slog.Int64("id", p.ID))
	}
	return nil
}
