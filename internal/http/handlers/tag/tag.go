// Package tag реализует HTTP-обработчики меток.
package tag

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

// Service описывает работу с метками.
type Service interface {
	CreateTag(ctx context.Context, req models.DummyTag) (models.Tag, error)
	GetTag(ctx context.Context, id int64) (models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	UpdateTag(ctx context.Context, id int64, req models.DummyTag) (models.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}

// Handler объединяет обработчики меток.
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
// @Summary Метки
// @Tags Content
// @Produce  json
// @Success 200 {object} response.Response
// @Router /tags [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.tag.list")

	items, err := h.service.ListTags(r.Context())
	if err != nil {
		apierror.Render(w, r, log, err, "could not list tags")
		return
	}
	render.JSON(w, r, response.OKWithData(items))
}

// Create godoc
// @Summary Создать метку
// @Description Если slug не задан, он строится из имени транслитерацией.
// @Tags Content
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyTag true "Данные"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Slug занят"
// @Failure 422 {object} response.ErrorResponse
// @Router /tags [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.tag.create")

	var req models.DummyTag
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	item, err := h.service.CreateTag(r.Context(), req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not create tag")
		return
	}

	log.Info("tag created", slog.Int64("id", item.ID), slog.String("slug", item.Slug))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(item))
}

// Get godoc
// @Summary Метка по ID
// @Tags Content
// @Produce  json
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /tags/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.tag.get")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	item, err := h.service.GetTag(r.Context(), id)
	if err != nil {
		apierror.Render(w, r, log, err, "could not read tag")
		return
	}
	render.JSON(w, r, response.OKWithData(item))
}

// Update godoc
// @Summary Изменить метку
// @Tags Content
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body models.DummyTag true "Данные"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /tags/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.tag.update")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	var req models.DummyTag
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	item, err := h.service.UpdateTag(r.Context(), id, req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not update tag")
		return
	}
	render.JSON(w, r, response.OKWithData(item))
}

// Delete godoc
// @Summary Удалить метку
// @Tags Content
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /tags/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.tag.delete")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	if err := h.service.DeleteTag(r.Context(), id); err != nil {
		apierror.Render(w, r, log, err, "could not delete tag")
		return
	}

	log.Info("tag deleted", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
