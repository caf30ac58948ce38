// Package category реализует HTTP-обработчики рубрик блога.
package category

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

// Service описывает работу с рубриками.
type Service interface {
	CreateCategory(ctx context.Context, req models.DummyCategory) (models.Category, error)
	GetCategory(ctx context.Context, id int64) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id int64, req models.DummyCategory) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// Handler объединяет обработчики рубрик.
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
// @Summary Рубрики
// @Tags Content
// @Produce  json
// @Success 200 {object} response.Response
// @Router /categories [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.category.list")

	items, err := h.service.ListCategories(r.Context())
	if err != nil {
		apierror.Render(w, r, log, err, "could not list categories")
		return
	}
	render.JSON(w, r, response.OKWithData(items))
}

// Create godoc
// @Summary Создать рубрику
// @Description Если slug не задан, он строится из имени транслитерацией.
// @Tags Content
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyCategory true "Данные"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Slug занят"
// @Failure 422 {object} response.ErrorResponse
// @Router /categories [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.category.create")

	var req models.DummyCategory
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	item, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not create category")
		return
	}

	log.Info("category created", slog.Int64("id", item.ID), slog.String("slug", item.Slug))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(item))
}

// Get godoc
// @Summary Рубрика по ID
// @Tags Content
// @Produce  json
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /categories/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.category.get")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	item, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		apierror.Render(w, r, log, err, "could not read category")
		return
	}
	render.JSON(w, r, response.OKWithData(item))
}

// Update godoc
// @Summary Изменить рубрику
// @Tags Content
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body models.DummyCategory true "Данные"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /categories/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.category.update")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	var req models.DummyCategory
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	item, err := h.service.UpdateCategory(r.Context(), id, req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not update category")
		return
	}
	render.JSON(w, r, response.OKWithData(item))
}

// Delete godoc
// @Summary Удалить рубрику
// @Description Публикации рубрики остаются без рубрики.
// @Tags Content
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /categories/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.category.delete")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		apierror.Render(w, r, log, err, "could not delete category")
		return
	}

	log.Info("category deleted", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
