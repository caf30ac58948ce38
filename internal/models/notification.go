package models

import "time"

// Типы уведомлений.
const (
	NotificationTrebaCreated = "treba_created"
	NotificationTrebaStatus  = "treba_status"
	NotificationPayment      = "payment"
	NotificationSystem       = "system"
)

// Notification — уведомление для администраторов и, при наличии адреса, для заявителя.
type Notification struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// DummyNotification описывает запрос ручного создания уведомления.
type DummyNotification struct {
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
	Type    string `json:"type,omitempty" validate:"omitempty,oneof=treba_created treba_status payment system"`
}

// NotificationFilter описывает параметры выборки уведомлений.
type NotificationFilter struct {
	UnreadOnly bool
	Type       string
	Page       Page
}

// EmailMessage — сообщение, публикуемое в очередь для отправки письма.
type EmailMessage struct {
	NotificationID int64  `json:"notification_id"`
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}
