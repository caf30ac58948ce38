// Package legacydelete реализует физическое удаление требы для устаревшего API.
// Вместе с требой удаляются имена, журнал и платеж.
package legacydelete

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/monastery-admin/internal/http/apierror"
	"github.com/magabrotheeeer/monastery-admin/internal/http/request"
	"github.com/magabrotheeeer/monastery-admin/internal/http/response"
)

// Handler обрабатывает запросы физического удаления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает физическое удаление требы.
type Service interface {
	HardDelete(ctx context.Context, id int64) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить требу (устаревший API)
// @Tags Legacy
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID требы"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Треба не найдена"
// @Router /legacy/treby/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.treba.legacydelete"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}

	if err := h.service.HardDelete(r.Context(), id); err != nil {
		apierror.Render(w, r, log, err, "could not delete treba")
		return
	}

	log.Warn("treba deleted via legacy api", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
