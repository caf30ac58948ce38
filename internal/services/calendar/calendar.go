// Package calendar реализует ведение богослужебного календаря.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// DateLayout — формат дат событий в запросах.
const DateLayout = "02-01-2006"

var (
	// ErrInvalidDate возвращается при неверном формате даты.
	ErrInvalidDate = errors.New("invalid date, expected DD-MM-YYYY")
	// ErrInvalidRange возвращается, когда дата окончания раньше даты начала.
	ErrInvalidRange = errors.New("end date is before start date")
)

// Repository определяет методы хранилища событий.
type Repository interface {
	CreateCalendarEvent(ctx context.Context, e *models.CalendarEvent) (int64, error)
	GetCalendarEvent(ctx context.Context, id int64) (models.CalendarEvent, error)
	ListCalendarEvents(ctx context.Context, f models.CalendarFilter) ([]models.CalendarEvent, int, error)
	UpdateCalendarEvent(ctx context.Context, e *models.CalendarEvent) error
	DeleteCalendarEvent(ctx context.Context, id int64) error
}

// Service реализует операции с событиями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ParseDate разбирает дату DD-MM-YYYY, пустая строка дает nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &d, nil
}

func fromRequest(req models.DummyCalendarEvent) (models.CalendarEvent, error) {
	start, err := ParseDate(req.StartDate)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	if start == nil {
		return models.CalendarEvent{}, ErrInvalidDate
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	if end != nil && end.Before(*start) {
		return models.CalendarEvent{}, ErrInvalidRange
	}

	e := models.CalendarEvent{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartDate:   *start,
		EndDate:     end,
		Type:        req.Type,
		IsHoliday:   req.IsHoliday,
	}
	if e.Type == "" {
		e.Type = models.EventOther
	}
	return e, nil
}

// Create добавляет событие.
func (s *Service) Create(ctx context.Context, req models.DummyCalendarEvent) (models.CalendarEvent, error) {
	const op = "calendar.Create"

	e, err := fromRequest(req)
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.CreateCalendarEvent(ctx, &e); err != nil {
		return models.CalendarEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("calendar event created", slog.Int64("id", e.ID), slog.String("type", e.Type))
	return e, nil
}

// Get возвращает событие по id.
func (s *Service) Get(ctx context.Context, id int64) (models.CalendarEvent, error) {
	const op = "calendar.Get"

	e, err := s.repo.GetCalendarEvent(ctx, id)
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// List возвращает события, пересекающие интервал фильтра.
func (s *Service) List(ctx context.Context, f models.CalendarFilter) (models.List[models.CalendarEvent], error) {
	const op = "calendar.List"

	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return models.List[models.CalendarEvent]{}, fmt.Errorf("%s: %w", op, ErrInvalidRange)
	}
	items, total, err := s.repo.ListCalendarEvents(ctx, f)
	if err != nil {
		return models.List[models.CalendarEvent]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[models.CalendarEvent]{Items: items, Total: total, Limit: f.Page.Limit, Offset: f.Page.Offset}, nil
}

// Update перезаписывает событие.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyCalendarEvent) (models.CalendarEvent, error) {
	const op = "calendar.Update"

	e, err := fromRequest(req)
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	e.ID = id
	if err := s.repo.UpdateCalendarEvent(ctx, &e); err != nil {
		return models.CalendarEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// Delete удаляет событие.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "calendar.Delete"

	if err := s.repo.DeleteCalendarEvent(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
