// Package notification сохраняет уведомления и передает письма в очередь на отправку.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/monastery-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// Repository определяет методы хранилища уведомлений.
type Repository interface {
	CreateNotification(ctx context.Context, n *models.Notification) (int64, error)
	ListNotifications(ctx context.Context, f models.NotificationFilter) ([]models.Notification, int, error)
	CountUnread(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) (int64, error)
	DeleteNotification(ctx context.Context, id int64) error
}

// Publisher публикует сообщения в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует работу с уведомлениями.
type Service struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// New создает Service. publisher может быть nil, тогда письма не отправляются.
func New(repo Repository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, log: log}
}

// Create сохраняет уведомление и, если указан адрес, ставит письмо в очередь.
// Ошибка публикации только логируется: уведомление уже сохранено.
func (s *Service) Create(ctx context.Context, req models.DummyNotification) (models.Notification, error) {
	const op = "notification.Create"

	n := models.Notification{
		Email:   req.Email,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	}
	if n.Type == "" {
		n.Type = models.NotificationSystem
	}
	if _, err := s.repo.CreateNotification(ctx, &n); err != nil {
		return models.Notification{}, fmt.Errorf("%s: %w", op, err)
	}

	if n.Email != "" && s.publisher != nil {
		msg := models.EmailMessage{
			NotificationID: n.ID,
			To:             n.Email,
			Subject:        n.Title,
			Body:           n.Message,
		}
		if err := s.publisher.Publish(rabbitmq.RoutingKeyEmail, msg); err != nil {
			s.log.Error("failed to publish email notification",
				slog.String("op", op), slog.Int64("id", n.ID), sl.Err(err))
		}
	}
	return n, nil
}

// Notify создает уведомление из других сервисов; ошибки только логируются.
func (s *Service) Notify(ctx context.Context, req models.DummyNotification) {
	if _, err := s.Create(ctx, req); err != nil {
		s.log.Error("failed to create notification", slog.String("title", req.Title), sl.Err(err))
	}
}

// List возвращает страницу уведомлений.
func (s *Service) List(ctx context.Context, f models.NotificationFilter) (models.List[models.Notification], error) {
	const op = "notification.List"

	items, total, err := s.repo.ListNotifications(ctx, f)
	if err != nil {
		return models.List[models.Notification]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[models.Notification]{Items: items, Total: total, Limit: f.Page.Limit, Offset: f.Page.Offset}, nil
}

// CountUnread возвращает число непрочитанных.
func (s *Service) CountUnread(ctx context.Context) (int, error) {
	const op = "notification.CountUnread"

	n, err := s.repo.CountUnread(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// MarkRead отмечает уведомление прочитанным.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	const op = "notification.MarkRead"

	if err := s.repo.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkAllRead отмечает все уведомления прочитанными.
func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	const op = "notification.MarkAllRead"

	n, err := s.repo.MarkAllNotificationsRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// Delete удаляет уведомление.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "notification.Delete"

	if err := s.repo.DeleteNotification(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
