// Package list реализует HTTP-обработчик списка треб с фильтрами и пагинацией.
package list

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

// Handler обрабатывает запросы списка треб.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает выборку треб.
type Service interface {
	List(ctx context.Context, f models.TrebaFilter) (models.List[models.Treba], error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список треб
// @Tags Treby
// @Produce  json
// @Security BearerAuth
// @Param status query string false "pending, paid, completed, cancelled"
// @Param type query string false "Вид требы"
// @Param period query string false "Срок"
// @Param email query string false "Адрес заявителя"
// @Param from query string false "Создана не раньше, DD-MM-YYYY"
// @Param to query string false "Создана не позже, DD-MM-YYYY"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Param sort query string false "id, created_at, updated_at, price, status, type"
// @Param order query string false "asc или desc"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный фильтр"
// @Router /treby [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.treba.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	f := models.TrebaFilter{
		Type:   q.Get("type"),
		Period: q.Get("period"),
		Email:  q.Get("email"),
		Page:   request.ParsePage(r),
	}
	if s := q.Get("status"); s != "" {
		status := models.TrebaStatus(s)
		if !status.Valid() {
			log.Info("unknown status filter", slog.String("status", s))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown status"))
			return
		}
		f.Status = &status
	}

	var err error
	if f.From, err = request.ParseDate(r, "from"); err == nil {
		f.To, err = request.ParseDate(r, "to")
	}
	if err != nil {
		log.Info("invalid date filter", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	if f.To != nil {
		end := f.To.AddDate(0, 0, 1)
		f.To = &end
	}

	res, err := h.service.List(r.Context(), f)
	if err != nil {
		apierror.Render(w, r, log, err, "could not list treby")
		return
	}

	log.Info("list treby", slog.Int("count", len(res.Items)), slog.Int("total", res.Total))
	render.JSON(w, r, response.OKWithData(res))
}
