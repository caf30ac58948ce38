// Package trebatype реализует HTTP-обработчики справочника видов треб.
package trebatype

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

// Service описывает операции справочника.
type Service interface {
	Create(ctx context.Context, req models.DummyTrebaType) (models.TrebaType, error)
	Get(ctx context.Context, id int64) (models.TrebaType, error)
	List(ctx context.Context, activeOnly bool) ([]models.TrebaType, error)
	Update(ctx context.Context, id int64, req models.DummyTrebaType) (models.TrebaType, error)
	Delete(ctx context.Context, id int64) error
}

// Handler объединяет обработчики справочника.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List godoc
// @Summary Виды треб
// @Tags TrebaTypes
// @Produce  json
// @Param active query bool false "Только активные"
// @Success 200 {object} response.Response
// @Router /treba-types [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.trebatype.list")

	items, err := h.service.List(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		apierror.Render(w, r, log, err, "could not list treba types")
		return
	}
	render.JSON(w, r, response.OKWithData(items))
}

// Create godoc
// @Summary Добавить вид требы
// @Tags TrebaTypes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyTrebaType true "Вид требы"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Имя занято"
// @Failure 422 {object} response.ErrorResponse
// @Router /treba-types [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.trebatype.create")

	var req models.DummyTrebaType
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	tt, err := h.service.Create(r.Context(), req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not create treba type")
		return
	}

	log.Info("treba type created", slog.Int64("id", tt.ID), slog.String("name", tt.Name))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(tt))
}

// Get godoc
// @Summary Вид требы по ID
// @Tags TrebaTypes
// @Produce  json
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /treba-types/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.trebatype.get")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	tt, err := h.service.Get(r.Context(), id)
	if err != nil {
		apierror.Render(w, r, log, err, "could not read treba type")
		return
	}
	render.JSON(w, r, response.OKWithData(tt))
}

// Update godoc
// @Summary Изменить вид требы
// @Tags TrebaTypes
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body models.DummyTrebaType true "Вид требы"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /treba-types/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.trebatype.update")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	var req models.DummyTrebaType
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	tt, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not update treba type")
		return
	}

	log.Info("treba type updated", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(tt))
}

// Delete godoc
// @Summary Удалить вид требы
// @Tags TrebaTypes
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /treba-types/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.trebatype.delete")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		apierror.Render(w, r, log, err, "could not delete treba type")
		return
	}

	log.Info("treba type deleted", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
