package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

const calendarColumns = "id, title, description, start_date, end_date, type, is_holiday, created_at, updated_at"

var calendarSortable = map[string]string{
	"start_date": "start_date",
	"title":      "title",
	"created_at": "created_at",
}

func scanCalendarEvent(row scanner) (models.CalendarEvent, error) {
	var (
		e   models.CalendarEvent
		end sql.NullTime
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &end, &e.Type, &e.IsHoliday,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	e.EndDate = timePtr(end)
	return e, nil
}

// Событие попадает в интервал, если пересекается с ним; однодневное событие
// заканчивается в день начала.
func calendarConditions(b sq.SelectBuilder, f models.CalendarFilter) sq.SelectBuilder {
	if f.From != nil {
		b = b.Where("COALESCE(end_date, start_date) >= ?", *f.From)
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"start_date": *f.To})
	}
	if f.Type != "" {
		b = b.Where(sq.Eq{"type": f.Type})
	}
	return b
}

// CreateCalendarEvent сохраняет событие.
func (s *Storage) CreateCalendarEvent(ctx context.Context, e *models.CalendarEvent) (int64, error) {
	const op = "storage.CreateCalendarEvent"

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO calendar_events (title, description, start_date, end_date, type, is_holiday)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`,
		e.Title, e.Description, e.StartDate, nullTime(e.EndDate), e.Type, e.IsHoliday).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return 0, wrap(op, err)
	}
	return e.ID, nil
}

// GetCalendarEvent возвращает событие по id.
func (s *Storage) GetCalendarEvent(ctx context.Context, id int64) (models.CalendarEvent, error) {
	const op = "storage.GetCalendarEvent"

	e, err := scanCalendarEvent(s.q.QueryRowContext(ctx,
		`SELECT `+calendarColumns+` FROM calendar_events WHERE id = $1`, id))
	if err != nil {
		return models.CalendarEvent{}, wrap(op, err)
	}
	return e, nil
}

// ListCalendarEvents возвращает события, пересекающие интервал фильтра.
func (s *Storage) ListCalendarEvents(ctx context.Context, f models.CalendarFilter) ([]models.CalendarEvent, int, error) {
	const op = "storage.ListCalendarEvents"

	total, err := s.count(ctx, calendarConditions(psql.Select("COUNT(*)").From("calendar_events"), f))
	if err != nil {
		return nil, 0, wrap(op, err)
	}

	b := paginate(calendarConditions(psql.Select(calendarColumns).From("calendar_events"), f),
		f.Page, calendarSortable, "start_date")
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.CalendarEvent, 0)
	for rows.Next() {
		e, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, 0, wrap(op, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrap(op, err)
	}
	return result, total, nil
}

// UpdateCalendarEvent перезаписывает событие.
func (s *Storage) UpdateCalendarEvent(ctx context.Context, e *models.CalendarEvent) error {
	const op = "storage.UpdateCalendarEvent"

	err := s.q.QueryRowContext(ctx, `
		UPDATE calendar_events SET title = $1, description = $2, start_date = $3, end_date = $4,
			type = $5, is_holiday = $6, updated_at = now()
		WHERE id = $7 RETURNING created_at, updated_at`,
		e.Title, e.Description, e.StartDate, nullTime(e.EndDate), e.Type, e.IsHoliday, e.ID).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// DeleteCalendarEvent удаляет событие.
func (s *Storage) DeleteCalendarEvent(ctx context.Context, id int64) error {
	const op = "storage.DeleteCalendarEvent"

	res, err := s.q.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}
