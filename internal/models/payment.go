package models

import "time"

// PaymentStatus — статус платежа.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment представляет оплату требы. У требы не более одного платежа.
type Payment struct {
	ID          int64         `json:"id"`
	TrebaID     int64         `json:"treba_id"`
	Amount      int64         `json:"amount"`
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status"`
	Method      string        `json:"method,omitempty"`
	ExternalID  string        `json:"external_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	ConfirmedAt *time.Time    `json:"confirmed_at,omitempty"`
}

// DummyPayment описывает запрос создания платежа.
type DummyPayment struct {
	TrebaID    int64  `json:"treba_id" validate:"required,gt=0"`
	Amount     int64  `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Currency   string `json:"currency,omitempty" validate:"omitempty,len=3"`
	Method     string `json:"method,omitempty" validate:"omitempty,max=50"`
	ExternalID string `json:"external_id,omitempty" validate:"omitempty,max=100"`
}

// PaymentFilter — параметры выборки платежей.
type PaymentFilter struct {
	Status  *PaymentStatus
	TrebaID int64
	Page    Page
}

// События уведомлений провайдера.
const (
	WebhookPaymentSucceeded = "payment.succeeded"
	WebhookPaymentCanceled  = "payment.canceled"
)

// WebhookEvent описывает тело уведомления провайдера о платеже.
type WebhookEvent struct {
	Event  string        `json:"event" validate:"required"`
	Object WebhookObject `json:"object"`
}

// WebhookObject описывает платеж на стороне провайдера.
type WebhookObject struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status"`
}
