// Package reminder периодически ищет оплаченные требы с истекшим сроком поминовения
// и создает уведомления для сотрудников, чтобы требу можно было закрыть.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

const batchSize = 100

// Repository определяет методы хранилища, нужные планировщику.
type Repository interface {
	ListTrebyPeriodEnded(ctx context.Context, now time.Time, limit int) ([]models.Treba, error)
	MarkPeriodReminded(ctx context.Context, id int64) error
}

// Notifier создает уведомления; ошибки обрабатывает сам.
type Notifier interface {
	Notify(ctx context.Context, req models.DummyNotification)
}

// Service ищет требы с истекшим сроком.
type Service struct {
	repo     Repository
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// New создает Service.
func New(repo Repository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, log: log, now: time.Now}
}

// Run выполняет проверку сразу и затем каждые interval, пока не отменен ctx.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error("period reminder run failed", sl.Err(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce обрабатывает все найденные требы пачками и возвращает число напоминаний.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	const op = "reminder.RunOnce"
	log := s.log.With(slog.String("op", op))

	total := 0
	for {
		items, err := s.repo.ListTrebyPeriodEnded(ctx, s.now(), batchSize)
		if err != nil {
			return total, fmt.Errorf("%s: %w", op, err)
		}
		if len(items) == 0 {
			break
		}
		for _, t := range items {
			s.notifier.Notify(ctx, models.DummyNotification{
				Title:   fmt.Sprintf("Срок требы №%d истек", t.ID),
				Message: fmt.Sprintf("%s (%s) оплачена и завершила срок поминовения. Отметьте ее выполненной.", t.Type, t.Period),
				Type:    models.NotificationTrebaStatus,
			})
			if err := s.repo.MarkPeriodReminded(ctx, t.ID); err != nil {
				return total, fmt.Errorf("%s: %w", op, err)
			}
			total++
		}
		if len(items) < batchSize {
			break
		}
	}

	if total > 0 {
		log.Info("period reminders created", slog.Int("count", total))
	} else {
		log.Debug("no treby with ended period")
	}
	return total, nil
}
