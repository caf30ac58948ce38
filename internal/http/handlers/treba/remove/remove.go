// Package remove реализует логическое удаление требы: перевод в статус cancelled.
package remove

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

// Handler обрабатывает запросы отмены требы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает отмену требы.
type Service interface {
	Cancel(ctx context.Context, id int64, comment string) (models.Treba, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отменить требу
// @Description Переводит требу в cancelled и добавляет запись в журнал. Запись не удаляется.
// @Tags Treby
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID требы"
// @Param comment query string false "Причина отмены"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Недопустимый переход"
// @Failure 404 {object} response.ErrorResponse "Треба не найдена"
// @Failure 410 {object} response.ErrorResponse "Треба уже отменена"
// @Router /treby/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.treba.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}

	t, err := h.service.Cancel(r.Context(), id, r.URL.Query().Get("comment"))
	if err != nil {
		apierror.Render(w, r, log, err, "could not cancel treba")
		return
	}

	log.Info("treba cancelled", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(t))
}
