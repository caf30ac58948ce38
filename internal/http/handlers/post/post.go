// Package post реализует HTTP-обработчики публикаций блога.
//
// Редакторы работают с любыми публикациями; публичные обработчики
// отдают только опубликованные.
package post

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/monastery-admin/internal/http/apierror"
	"github.com/magabrotheeeer/monastery-admin/internal/http/request"
	"github.com/magabrotheeeer/monastery-admin/internal/http/response"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// Service описывает работу с публикациями.
type Service interface {
	CreatePost(ctx context.Context, req models.DummyPost) (models.Post, error)
	GetPost(ctx context.Context, id int64) (models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (models.Post, error)
	ListPosts(ctx context.Context, f models.PostFilter) (models.List[models.Post], error)
	ListPublished(ctx context.Context, f models.PostFilter) (models.List[models.Post], error)
	UpdatePost(ctx context.Context, id int64, req models.DummyPost) (models.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

// Handler объединяет обработчики публикаций.
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

func filterFromQuery(r *http.Request) models.PostFilter {
	q := r.URL.Query()
	return models.PostFilter{
		Status:       q.Get("status"),
		CategorySlug: q.Get("category"),
		TagSlug:      q.Get("tag"),
		Page:         request.ParsePage(r),
	}
}

// List godoc
// @Summary Публикации (админка)
// @Tags Posts
// @Produce  json
// @Security BearerAuth
// @Param status query string false "draft или published"
// @Param category query string false "Slug рубрики"
// @Param tag query string false "Slug метки"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Param sort query string false "created_at, published_at, title"
// @Param order query string false "asc или desc"
// @Success 200 {object} response.Response
// @Router /posts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.post.list")

	f := filterFromQuery(r)
	if f.Status != "" && f.Status != models.PostDraft && f.Status != models.PostPublished {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown status"))
		return
	}
	res, err := h.service.ListPosts(r.Context(), f)
	if err != nil {
		apierror.Render(w, r, log, err, "could not list posts")
		return
	}
	render.JSON(w, r, response.OKWithData(res))
}

// ListPublished godoc
// @Summary Опубликованные записи
// @Tags Posts
// @Produce  json
// @Param category query string false "Slug рубрики"
// @Param tag query string false "Slug метки"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Router /public/posts [get]
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.post.list_published")

	res, err := h.service.ListPublished(r.Context(), filterFromQuery(r))
	if err != nil {
		apierror.Render(w, r, log, err, "could not list posts")
		return
	}
	render.JSON(w, r, response.OKWithData(res))
}

// GetBySlug godoc
// @Summary Опубликованная запись по slug
// @Tags Posts
// @Produce  json
// @Param slug path string true "Slug"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /public/posts/{slug} [get]
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.post.get_by_slug")

	p, err := h.service.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		apierror.Render(w, r, log, err, "could not read post")
		return
	}
	render.JSON(w, r, response.OKWithData(p))
}

// Create godoc
// @Summary Создать публикацию
// @Tags Posts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPost true "Публикация"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Slug занят или рубрика не найдена"
// @Failure 422 {object} response.ErrorResponse
// @Router /posts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.post.create")

	var req models.DummyPost
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	p, err := h.service.CreatePost(r.Context(), req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not create post")
		return
	}

	log.Info("post created", slog.Int64("id", p.ID), slog.String("status", p.Status))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(p))
}

// Get godoc
// @Summary Публикация по ID
// @Tags Posts
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /posts/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.post.get")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	p, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		apierror.Render(w, r, log, err, "could not read post")
		return
	}
	render.JSON(w, r, response.OKWithData(p))
}

// Update godoc
// @Summary Изменить публикацию
// @Tags Posts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body models.DummyPost true "Публикация"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /posts/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.post.update")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	var req models.DummyPost
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	p, err := h.service.UpdatePost(r.Context(), id, req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not update post")
		return
	}

	log.Info("post updated", slog.Int64("id", id), slog.String("status", p.Status))
	render.JSON(w, r, response.OKWithData(p))
}

// Delete godoc
// @Summary Удалить публикацию
// @Tags Posts
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /posts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.post.delete")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	if err := h.service.DeletePost(r.Context(), id); err != nil {
		apierror.Render(w, r, log, err, "could not delete post")
		return
	}
	render.JSON(w, r, response.OK())
}
