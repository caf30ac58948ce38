// Package paymentread реализует HTTP-обработчик чтения платежа.
package paymentread

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

// Handler обрабатывает чтение платежа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение платежа.
type Service interface {
	Get(ctx context.Context, id int64) (models.Payment, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Платеж по ID
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /payments/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		apierror.Render(w, r, log, err, "could not read payment")
		return
	}
	render.JSON(w, r, response.OKWithData(p))
}
