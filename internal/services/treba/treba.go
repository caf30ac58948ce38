// Package treba реализует прием и обработку заявок на требы: расчет стоимости,
// проверку имен, смену статусов с журналом и уведомления.
package treba

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/monastery-admin/internal/lib/names"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/pricing"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/metrics"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// DateLayout задает формат дат во входящих запросах.
const DateLayout = "02-01-2006"

const commentCreated = "created"

var (
	ErrNoValidNames      = errors.New("at least one valid name is required")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("unknown status")
	ErrTrebaCancelled    = errors.New("treba is cancelled")
	ErrInvalidDate       = errors.New("invalid custom date, expected DD-MM-YYYY")
)

// Repository определяет методы хранилища треб.
type Repository interface {
	TransitionRepository
	CreateTreba(ctx context.Context, t *models.Treba) (int64, error)
	InsertNames(ctx context.Context, trebaID int64, names []models.TrebaName) error
	ReplaceNames(ctx context.Context, trebaID int64, names []models.TrebaName) error
	ListNames(ctx context.Context, trebaID int64) ([]models.TrebaName, error)
	ListHistory(ctx context.Context, trebaID int64) ([]models.StatusHistoryEntry, error)
	GetTreba(ctx context.Context, id int64) (models.Treba, error)
	ListTreby(ctx context.Context, f models.TrebaFilter) ([]models.Treba, int, error)
	UpdateTreba(ctx context.Context, t *models.Treba) error
	DeleteTreba(ctx context.Context, id int64) error
}

// TxFunc выполняет fn в транзакции; переданный Repository привязан к ней.
type TxFunc func(ctx context.Context, fn func(repo Repository) error) error

// TypeLookup ищет активный вид требы; nil без ошибки означает, что вид не найден.
type TypeLookup interface {
	LookupActive(ctx context.Context, name string) (*models.TrebaType, error)
}

// Notifier создает уведомления; ошибки обрабатывает сам.
type Notifier interface {
	Notify(ctx context.Context, req models.DummyNotification)
}

// Service реализует бизнес-логику треб.
type Service struct {
	repo     Repository
	inTx     TxFunc
	types    TypeLookup
	notifier Notifier
	log      *slog.Logger
}

// New создает Service.
func New(repo Repository, inTx TxFunc, types TypeLookup, notifier Notifier, log *slog.Logger) *Service {
	return &Service{repo: repo, inTx: inTx, types: types, notifier: notifier, log: log}
}

// Quote рассчитывает стоимость. Если вид требы не найден или поиск не удался,
// берется цена по умолчанию и пишется предупреждение.
func (s *Service) Quote(ctx context.Context, typeName, period string, nameCount int) models.PriceQuote {
	const op = "treba.Quote"

	t, err := s.types.LookupActive(ctx, typeName)
	if err != nil {
		s.log.Warn("failed to look up treba type", slog.String("op", op), slog.String("type", typeName), sl.Err(err))
		t = nil
	}
	q := pricing.Quote(t, typeName, period, nameCount)
	if q.Fallback {
		s.log.Warn("treba type not found, using fallback price",
			slog.String("op", op),
			slog.String("type", typeName),
			slog.Float64("price_per_name", pricing.FallbackPricePerName))
	}
	return q
}

// Create принимает заявку: обрабатывает имена, считает цену и в одной транзакции
// сохраняет требу, имена и первую запись журнала.
func (s *Service) Create(ctx context.Context, req models.DummyTreba) (models.Treba, error) {
	const op = "treba.Create"

	period := normalizePeriod(req.Period)
	customDate, err := parseCustomDate(period, req.CustomDate)
	if err != nil {
		return models.Treba{}, err
	}

	processed := names.Process(req.Names)
	valid := names.CountValid(processed)
	if valid == 0 {
		return models.Treba{}, ErrNoValidNames
	}

	typeName := strings.TrimSpace(req.Type)
	quote := s.Quote(ctx, typeName, string(period), valid)

	t := models.Treba{
		Type:           typeName,
		Period:         period,
		CustomDate:     customDate,
		Price:          quote.Price,
		Currency:       quote.Currency,
		Status:         models.TrebaStatusPending,
		RequesterName:  strings.TrimSpace(req.RequesterName),
		RequesterEmail: strings.TrimSpace(req.RequesterEmail),
		Note:           req.Note,
	}

	err = s.inTx(ctx, func(repo Repository) error {
		if _, err := repo.CreateTreba(ctx, &t); err != nil {
			return err
		}
		if err := repo.InsertNames(ctx, t.ID, processed); err != nil {
			return err
		}
		entry, err := repo.AppendHistory(ctx, t.ID, models.TrebaStatusPending, commentCreated)
		if err != nil {
			return err
		}
		t.History = []models.StatusHistoryEntry{entry}
		return nil
	})
	if err != nil {
		return models.Treba{}, fmt.Errorf("%s: %w", op, err)
	}

	for i := range processed {
		processed[i].TrebaID = t.ID
	}
	t.Names = processed

	s.log.Info("treba created",
		slog.Int64("id", t.ID),
		slog.String("type", t.Type),
		slog.Int("valid_names", valid),
		slog.Int64("price", t.Price))
	metrics.TrebyCreated.WithLabelValues(t.Type).Inc()

	s.notifier.Notify(ctx, models.DummyNotification{
		Title:   fmt.Sprintf("Новая треба №%d", t.ID),
		Message: fmt.Sprintf("%s, %s, имен: %d, сумма: %d %s", t.Type, t.Period, valid, t.Price, t.Currency),
		Type:    models.NotificationTrebaCreated,
	})
	if t.RequesterEmail != "" {
		s.notifier.Notify(ctx, models.DummyNotification{
			Email:   t.RequesterEmail,
			Title:   "Ваша треба принята",
			Message: fmt.Sprintf("Треба №%d (%s) принята. Сумма пожертвования: %d %s.", t.ID, t.Type, t.Price, t.Currency),
			Type:    models.NotificationTrebaCreated,
		})
	}
	return t, nil
}

// Get возвращает требу с именами и журналом статусов.
func (s *Service) Get(ctx context.Context, id int64) (models.Treba, error) {
	const op = "treba.Get"

	t, err := s.repo.GetTreba(ctx, id)
	if err != nil {
		return models.Treba{}, fmt.Errorf("%s: %w", op, err)
	}
	if t.Names, err = s.repo.ListNames(ctx, id); err != nil {
		return models.Treba{}, fmt.Errorf("%s: %w", op, err)
	}
	if t.History, err = s.repo.ListHistory(ctx, id); err != nil {
		return models.Treba{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// List возвращает страницу треб без имен и журнала.
func (s *Service) List(ctx context.Context, f models.TrebaFilter) (models.List[models.Treba], error) {
	const op = "treba.List"

	if f.Period != "" {
		f.Period = string(normalizePeriod(f.Period))
	}
	items, total, err := s.repo.ListTreby(ctx, f)
	if err != nil {
		return models.List[models.Treba]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[models.Treba]{Items: items, Total: total, Limit: f.Page.Limit, Offset: f.Page.Offset}, nil
}

// History возвращает журнал статусов требы.
func (s *Service) History(ctx context.Context, id int64) ([]models.StatusHistoryEntry, error) {
	const op = "treba.History"

	if _, err := s.repo.GetTreba(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	history, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return history, nil
}

// Update меняет поля требы. Цена пересчитывается при изменении вида, срока или имен.
// Отмененную требу менять нельзя.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyTrebaUpdate) (models.Treba, error) {
	const op = "treba.Update"

	err := s.inTx(ctx, func(repo Repository) error {
		t, err := repo.GetTrebaForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t.Status == models.TrebaStatusCancelled {
			return ErrTrebaCancelled
		}

		repriced := false
		if req.Type != nil {
			t.Type = strings.TrimSpace(*req.Type)
			repriced = true
		}
		if req.Period != nil {
			t.Period = normalizePeriod(*req.Period)
			repriced = true
		}
		if req.CustomDate != nil {
			if t.CustomDate, err = parseCustomDate(t.Period, *req.CustomDate); err != nil {
				return err
			}
		} else if req.Period != nil {
			if t.CustomDate, err = keepCustomDate(t.Period, t.CustomDate); err != nil {
				return err
			}
		}
		if req.RequesterName != nil {
			t.RequesterName = strings.TrimSpace(*req.RequesterName)
		}
		if req.RequesterEmail != nil {
			t.RequesterEmail = strings.TrimSpace(*req.RequesterEmail)
		}
		if req.Note != nil {
			t.Note = *req.Note
		}

		var valid int
		if req.Names != nil {
			processed := names.Process(*req.Names)
			valid = names.CountValid(processed)
			if valid == 0 {
				return ErrNoValidNames
			}
			if err := repo.ReplaceNames(ctx, id, processed); err != nil {
				return err
			}
			repriced = true
		} else if repriced {
			current, err := repo.ListNames(ctx, id)
			if err != nil {
				return err
			}
			t.Names = current
			valid = t.ValidNameCount()
		}

		if repriced {
			q := s.Quote(ctx, t.Type, string(t.Period), valid)
			t.Price, t.Currency = q.Price, q.Currency
		}
		return repo.UpdateTreba(ctx, &t)
	})
	if err != nil {
		return models.Treba{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("treba updated", slog.Int64("id", id))
	return s.Get(ctx, id)
}

// UpdateStatus переводит требу в новый статус и добавляет запись в журнал
// в одной транзакции. После фиксации отправляется уведомление.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status models.TrebaStatus, comment string) (models.Treba, error) {
	const op = "treba.UpdateStatus"

	err := s.inTx(ctx, func(repo Repository) error {
		_, _, err := Transition(ctx, repo, id, status, comment)
		return err
	})
	if err != nil {
		return models.Treba{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("treba status changed", slog.Int64("id", id), slog.String("status", string(status)))
	metrics.StatusTransitions.WithLabelValues(string(status)).Inc()

	t, err := s.Get(ctx, id)
	if err != nil {
		return models.Treba{}, fmt.Errorf("%s: %w", op, err)
	}
	s.NotifyStatus(ctx, t)
	return t, nil
}

// Cancel отменяет требу: логическое удаление.
func (s *Service) Cancel(ctx context.Context, id int64, comment string) (models.Treba, error) {
	if comment == "" {
		comment = "cancelled"
	}
	return s.UpdateStatus(ctx, id, models.TrebaStatusCancelled, comment)
}

// HardDelete физически удаляет требу. Используется только устаревшим API.
func (s *Service) HardDelete(ctx context.Context, id int64) error {
	const op = "treba.HardDelete"

	if err := s.repo.DeleteTreba(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Warn("treba hard deleted", slog.Int64("id", id))
	return nil
}

// NotifyStatus сообщает о новом статусе требы администраторам и заявителю.
func (s *Service) NotifyStatus(ctx context.Context, t models.Treba) {
	s.notifier.Notify(ctx, models.DummyNotification{
		Email:   t.RequesterEmail,
		Title:   fmt.Sprintf("Треба №%d: %s", t.ID, statusTitle(t.Status)),
		Message: fmt.Sprintf("Статус требы «%s» изменен на «%s».", t.Type, statusTitle(t.Status)),
		Type:    models.NotificationTrebaStatus,
	})
}

func statusTitle(s models.TrebaStatus) string {
	switch s {
	case models.TrebaStatusPending:
		return "ожидает оплаты"
	case models.TrebaStatusPaid:
		return "оплачена"
	case models.TrebaStatusCompleted:
		return "совершена"
	case models.TrebaStatusCancelled:
		return "отменена"
	}
	return string(s)
}

func normalizePeriod(label string) models.Period {
	p, _ := pricing.NormalizePeriod(label)
	return p
}

// Для срока custom дата обязательна.
func parseCustomDate(period models.Period, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if period == models.PeriodCustom {
			return nil, ErrInvalidDate
		}
		return nil, nil
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, raw)
	}
	return &d, nil
}

func keepCustomDate(period models.Period, current *time.Time) (*time.Time, error) {
	if period == models.PeriodCustom && current == nil {
		return nil, ErrInvalidDate
	}
	return current, nil
}
