// Package paymentconfirm реализует ручное подтверждение платежа администратором.
package paymentconfirm

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/monastery-admin/internal/http/apierror"
	"github.com/magabrotheeeer/monastery-admin/internal/http/request"
	"github.com/magabrotheeeer/monastery-admin/internal/http/response"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// Handler обрабатывает подтверждение платежа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает подтверждение платежа.
type Service interface {
	Confirm(ctx context.Context, id int64) (models.Payment, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подтвердить платеж
// @Description Переводит платеж в succeeded, а ожидающую требу в paid.
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Платеж уже подтвержден"
// @Failure 404 {object} response.ErrorResponse
// @Router /payments/{id}/confirm [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}

	p, err := h.service.Confirm(r.Context(), id)
	if err != nil {
		apierror.Render(w, r, log, err, "could not confirm payment")
		return
	}

	log.Info("payment confirmed", slog.Int64("id", p.ID), slog.Int64("treba_id", p.TrebaID))
	render.JSON(w, r, response.OKWithData(p))
}
