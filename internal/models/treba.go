// Package models содержит доменные структуры монастырского приложения:
// требы и их историю статусов, платежи, уведомления, календарь, контент и пользователей,
// а также DTO для приема данных из JSON-запросов.
package models

import "time"

// TrebaStatus описывает статус заявки на требу.
type TrebaStatus string

const (
	TrebaStatusPending   TrebaStatus = "pending"
	TrebaStatusPaid      TrebaStatus = "paid"
	TrebaStatusCompleted TrebaStatus = "completed"
	TrebaStatusCancelled TrebaStatus = "cancelled"
)

// Valid сообщает, известен ли статус.
func (s TrebaStatus) Valid() bool {
	switch s {
	case TrebaStatusPending, TrebaStatusPaid, TrebaStatusCompleted, TrebaStatusCancelled:
		return true
	}
	return false
}

// Terminal сообщает, что из статуса нет переходов.
func (s TrebaStatus) Terminal() bool {
	return s == TrebaStatusCompleted || s == TrebaStatusCancelled
}

// CanTransitionTo проверяет допустимость перехода:
// pending → paid → completed, pending/paid → cancelled.
func (s TrebaStatus) CanTransitionTo(next TrebaStatus) bool {
	switch s {
	case TrebaStatusPending:
		return next == TrebaStatusPaid || next == TrebaStatusCancelled
	case TrebaStatusPaid:
		return next == TrebaStatusCompleted || next == TrebaStatusCancelled
	}
	return false
}

// Period описывает срок поминовения.
type Period string

const (
	PeriodOneTime   Period = "one-time"
	PeriodWeek      Period = "week"
	PeriodMonth     Period = "month"
	PeriodFortyDays Period = "40-days"
	PeriodCustom    Period = "custom"
)

// Типы поминаемых имен.
const (
	NameTypeHealth = "health" // о здравии
	NameTypeRepose = "repose" // о упокоении
)

// Treba представляет заявку на требу.
type Treba struct {
	ID             int64                `json:"id"`
	Type           string               `json:"type"`
	Period         Period               `json:"period"`
	CustomDate     *time.Time           `json:"custom_date,omitempty"`
	Names          []TrebaName          `json:"names,omitempty"`
	Price          int64                `json:"price"`
	Currency       string               `json:"currency"`
	Status         TrebaStatus          `json:"status"`
	RequesterName  string               `json:"requester_name,omitempty"`
	RequesterEmail string               `json:"requester_email,omitempty"`
	Note           string               `json:"note,omitempty"`
	PaymentID      *int64               `json:"payment_id,omitempty"`
	History        []StatusHistoryEntry `json:"history,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ValidNameCount возвращает количество имен, прошедших проверку.
func (t *Treba) ValidNameCount() int {
	n := 0
	for _, name := range t.Names {
		if name.IsValid {
			n++
		}
	}
	return n
}

// TrebaName — одно поданное имя.
type TrebaName struct {
	ID              int64  `json:"id"`
	TrebaID         int64  `json:"treba_id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	IsValid         bool   `json:"is_valid"`
	ValidationError string `json:"validation_error,omitempty"`
	ChurchForm      string `json:"church_form,omitempty"`
}

// StatusHistoryEntry описывает неизменяемую запись журнала статусов требы.
type StatusHistoryEntry struct {
	ID        int64       `json:"id"`
	TrebaID   int64       `json:"treba_id"`
	Status    TrebaStatus `json:"status"`
	Comment   string      `json:"comment,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// TrebaType — справочник видов треб.
type TrebaType struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	BasePrice   float64 `json:"base_price"`
	Currency    string  `json:"currency"`
	IsActive    bool    `json:"is_active"`
}

// TrebaFilter — параметры выборки треб.
type TrebaFilter struct {
	Status *TrebaStatus
	Type   string
	Period string
	Email  string
	From   *time.Time
	To     *time.Time
	Page   Page
}

// NameInput описывает имя из запроса до обработки.
type NameInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"omitempty,oneof=health repose"`
}

// DummyTreba используется для приема заявки из JSON-запроса.
// Дата custom_date приходит строкой в формате 02-01-2006.
type DummyTreba struct {
	Type           string      `json:"type" validate:"required,max=200"`
	Period         string      `json:"period" validate:"required,max=50"`
	CustomDate     string      `json:"custom_date,omitempty"`
	Names          []NameInput `json:"names" validate:"required,min=1,max=100,dive"`
	RequesterName  string      `json:"requester_name,omitempty" validate:"omitempty,max=200"`
	RequesterEmail string      `json:"requester_email,omitempty" validate:"omitempty,email"`
	Note           string      `json:"note,omitempty" validate:"omitempty,max=2000"`
}

// DummyTrebaUpdate описывает частичное обновление полей требы; nil означает «не менять».
type DummyTrebaUpdate struct {
	Type           *string      `json:"type,omitempty" validate:"omitempty,min=1,max=200"`
	Period         *string      `json:"period,omitempty" validate:"omitempty,min=1,max=50"`
	CustomDate     *string      `json:"custom_date,omitempty"`
	Names          *[]NameInput `json:"names,omitempty" validate:"omitempty,min=1,max=100,dive"`
	RequesterName  *string      `json:"requester_name,omitempty" validate:"omitempty,max=200"`
	RequesterEmail *string      `json:"requester_email,omitempty" validate:"omitempty,email"`
	Note           *string      `json:"note,omitempty" validate:"omitempty,max=2000"`
}

// DummyStatusUpdate — запрос смены статуса.
type DummyStatusUpdate struct {
	Status  string `json:"status" validate:"required,oneof=pending paid completed cancelled"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

// DummyTrebaType — запрос создания или изменения вида требы.
type DummyTrebaType struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	BasePrice   float64 `json:"base_price" validate:"gte=0"`
	Currency    string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// PriceQuote описывает результат расчета стоимости.
type PriceQuote struct {
	Type       string  `json:"type"`
	Period     string  `json:"period"`
	NameCount  int     `json:"name_count"`
	BasePrice  float64 `json:"base_price"`
	Multiplier float64 `json:"multiplier"`
	Price      int64   `json:"price"`
	Currency   string  `json:"currency"`
	Fallback   bool    `json:"fallback"`
}
