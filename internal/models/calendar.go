package models

import "time"

// Типы событий календаря.
const (
	EventFeast    = "feast"
	EventFast     = "fast"
	EventService  = "service"
	EventMemorial = "memorial"
	EventOther    = "other"
)

// CalendarEvent описывает событие богослужебного календаря.
type CalendarEvent struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Type        string     `json:"type"`
	IsHoliday   bool       `json:"is_holiday"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DummyCalendarEvent — запрос создания или изменения события. Даты в формате 02-01-2006.
type DummyCalendarEvent struct {
	Title       string `json:"title" validate:"required,max=300"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date,omitempty"`
	Type        string `json:"type,omitempty" validate:"omitempty,oneof=feast fast service memorial other"`
	IsHoliday   bool   `json:"is_holiday"`
}

// CalendarFilter — выборка событий, пересекающих интервал.
type CalendarFilter struct {
	From *time.Time
	To   *time.Time
	Type string
	Page Page
}
