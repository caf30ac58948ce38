// Package update реализует HTTP-обработчик изменения полей требы.
//
// Меняются только переданные поля; при смене вида, срока или имен стоимость пересчитывается.
package update

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

// Handler обрабатывает запросы на изменение требы.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает изменение требы.
type Service interface {
	Update(ctx context.Context, id int64, req models.DummyTrebaUpdate) (models.Treba, error)
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
// @Summary Изменить требу
// @Tags Treby
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID требы"
// @Param request body models.DummyTrebaUpdate true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Треба не найдена"
// @Failure 410 {object} response.ErrorResponse "Треба отменена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /treby/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.treba.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}

	var req models.DummyTrebaUpdate
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}

	t, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not update treba")
		return
	}

	log.Info("treba updated", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(t))
}
