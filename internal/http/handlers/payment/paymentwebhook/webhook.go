// Package paymentwebhook принимает уведомления платежного провайдера.
package paymentwebhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/monastery-admin/internal/http/apierror"
	"github.com/magabrotheeeer/monastery-admin/internal/http/response"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// SignatureHeader — заголовок с подписью тела уведомления.
const SignatureHeader = "X-Api-Signature"

const maxBodySize = 1 << 20

// Service проверяет подпись и обрабатывает событие.
type Service interface {
	VerifySignature(body []byte, signature string) error
	ProcessWebhook(ctx context.Context, ev models.WebhookEvent) error
}

// Handler обрабатывает уведомления провайдера.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Уведомление платежного провайдера
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param X-Api-Signature header string true "HMAC-SHA256 тела в base64"
// @Param request body models.WebhookEvent true "Событие"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse "Неверная подпись"
// @Failure 404 {object} response.ErrorResponse "Платеж не найден"
// @Failure 503 {object} response.ErrorResponse "Прием уведомлений не настроен"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.VerifySignature(body, r.Header.Get(SignatureHeader)); err != nil {
		apierror.Render(w, r, log, err, "could not verify signature")
		return
	}

	var ev models.WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(ev); err != nil {
		log.Info("webhook validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("event and object.id are required"))
		return
	}

	if err := h.service.ProcessWebhook(r.Context(), ev); err != nil {
		apierror.Render(w, r, log, err, "could not process webhook")
		return
	}

	log.Info("webhook processed", slog.String("event", ev.Event), slog.String("external_id", ev.Object.ID))
	render.JSON(w, r, response.OK())
}
