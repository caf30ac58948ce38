// Package paymentcreate реализует HTTP-обработчик регистрации платежа по требе.
package paymentcreate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/monastery-admin/internal/http/apierror"
	"github.com/magabrotheeeer/monastery-admin/internal/http/request"
	"github.com/magabrotheeeer/monastery-admin/internal/http/response"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// Handler обрабатывает создание платежей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает создание платежа.
type Service interface {
	Create(ctx context.Context, req models.DummyPayment) (models.Payment, error)
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
// @Summary Зарегистрировать платеж
// @Description Создает платеж в статусе pending. Сумма по умолчанию равна стоимости требы.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPayment true "Платеж"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Платеж уже существует"
// @Failure 404 {object} response.ErrorResponse "Треба не найдена"
// @Failure 410 {object} response.ErrorResponse "Треба отменена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPayment
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not create payment")
		return
	}

	log.Info("payment created", slog.Int64("id", p.ID), slog.Int64("treba_id", p.TrebaID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(p))
}
