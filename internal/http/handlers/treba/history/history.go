// Package history реализует HTTP-обработчик журнала статусов требы.
package history

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

// Handler обрабатывает запросы журнала.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение журнала.
type Service interface {
	History(ctx context.Context, id int64) ([]models.StatusHistoryEntry, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Журнал статусов требы
// @Tags Treby
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID требы"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Треба не найдена"
// @Router /treby/{id}/history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.treba.history"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}

	entries, err := h.service.History(r.Context(), id)
	if err != nil {
		apierror.Render(w, r, log, err, "could not read treba history")
		return
	}
	render.JSON(w, r, response.OKWithData(entries))
}
