// Package status реализует HTTP-обработчик смены статуса требы.
//
// Переход и запись журнала выполняются в одной транзакции сервиса.
// Недопустимый переход дает 400, переход из cancelled дает 410.
package status

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

// Handler обрабатывает запросы смены статуса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает смену статуса требы.
type Service interface {
	UpdateStatus(ctx context.Context, id int64, status models.TrebaStatus, comment string) (models.Treba, error)
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
// @Summary Сменить статус требы
// @Tags Treby
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID требы"
// @Param request body models.DummyStatusUpdate true "Новый статус"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Недопустимый переход"
// @Failure 404 {object} response.ErrorResponse "Треба не найдена"
// @Failure 410 {object} response.ErrorResponse "Треба отменена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /treby/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.treba.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}

	var req models.DummyStatusUpdate
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}

	t, err := h.service.UpdateStatus(r.Context(), id, models.TrebaStatus(req.Status), req.Comment)
	if err != nil {
		apierror.Render(w, r, log, err, "could not change treba status")
		return
	}

	log.Info("treba status changed", slog.Int64("id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.OKWithData(t))
}
