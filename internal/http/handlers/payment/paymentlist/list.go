// Package paymentlist реализует HTTP-обработчик списка платежей.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/monastery-admin/internal/http/apierror"
	"github.com/magabrotheeeer/monastery-admin/internal/http/request"
	"github.com/magabrotheeeer/monastery-admin/internal/http/response"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// Handler обрабатывает запросы списка платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает выборку платежей.
type Service interface {
	List(ctx context.Context, f models.PaymentFilter) (models.List[models.Payment], error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список платежей
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Param status query string false "pending, succeeded, failed, refunded"
// @Param treba_id query int false "ID требы"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Param sort query string false "created_at, amount, status"
// @Param order query string false "asc или desc"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	f := models.PaymentFilter{Page: request.ParsePage(r)}

	if s := q.Get("status"); s != "" {
		status := models.PaymentStatus(s)
		switch status {
		case models.PaymentStatusPending, models.PaymentStatusSucceeded,
			models.PaymentStatusFailed, models.PaymentStatusRefunded:
			f.Status = &status
		default:
			log.Info("unknown payment status filter", slog.String("status", s))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown status"))
			return
		}
	}
	if v := q.Get("treba_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid treba_id"))
			return
		}
		f.TrebaID = id
	}

	res, err := h.service.List(r.Context(), f)
	if err != nil {
		apierror.Render(w, r, log, err, "could not list payments")
		return
	}

	log.Info("list payments", slog.Int("count", len(res.Items)), slog.Int("total", res.Total))
	render.JSON(w, r, response.OKWithData(res))
}
