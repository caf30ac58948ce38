// Package price реализует расчет стоимости требы без ее создания.
package price

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/monastery-admin/internal/http/response"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// Handler обрабатывает запросы расчета стоимости.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает расчет стоимости.
type Service interface {
	Quote(ctx context.Context, typeName, period string, nameCount int) models.PriceQuote
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Расчет стоимости
// @Tags Treby
// @Produce  json
// @Param type query string true "Вид требы"
// @Param period query string true "Срок"
// @Param names query int true "Количество имен"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /treby/price [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.treba.price"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	typeName, period := q.Get("type"), q.Get("period")
	count, err := strconv.Atoi(q.Get("names"))
	if typeName == "" || period == "" || err != nil || count < 0 || count > 100 {
		log.Info("invalid price query", slog.String("query", r.URL.RawQuery))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("type, period and names (0-100) are required"))
		return
	}

	render.JSON(w, r, response.OKWithData(h.service.Quote(r.Context(), typeName, period, count)))
}
