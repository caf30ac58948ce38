// Package read реализует HTTP-обработчик получения требы по id вместе с именами и журналом.
package read

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

// Handler обрабатывает запросы на получение требы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение требы.
type Service interface {
	Get(ctx context.Context, id int64) (models.Treba, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Треба по id
// @Tags Treby
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID требы"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 404 {object} response.ErrorResponse "Треба не найдена"
// @Router /treby/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.treba.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		apierror.Render(w, r, log, err, "could not read treba")
		return
	}
	render.JSON(w, r, response.OKWithData(t))
}
