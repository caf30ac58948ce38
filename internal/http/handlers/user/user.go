// Package user реализует HTTP-обработчики управления пользователями админки.
package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/monastery-admin/internal/http/apierror"
	"github.com/magabrotheeeer/monastery-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/monastery-admin/internal/http/request"
	"github.com/magabrotheeeer/monastery-admin/internal/http/response"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// Service описывает управление пользователями.
type Service interface {
	GetUser(ctx context.Context, uid string) (models.User, error)
	ListUsers(ctx context.Context, page models.Page) (models.List[models.User], error)
	UpdateRole(ctx context.Context, actorUID, uid, role string) (models.User, error)
	DeleteUser(ctx context.Context, actorUID, uid string) error
}

// Handler объединяет обработчики пользователей.
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
// @Summary Пользователи
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.user.list")

	res, err := h.service.ListUsers(r.Context(), request.ParsePage(r))
	if err != nil {
		apierror.Render(w, r, log, err, "could not list users")
		return
	}
	render.JSON(w, r, response.OKWithData(res))
}

// Get godoc
// @Summary Пользователь по uid
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{uid} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.user.get")

	u, err := h.service.GetUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		apierror.Render(w, r, log, err, "could not read user")
		return
	}
	render.JSON(w, r, response.OKWithData(u))
}

// UpdateRole godoc
// @Summary Сменить роль пользователя
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID"
// @Param request body models.DummyUserRole true "Роль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Нельзя менять свою роль"
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{uid}/role [patch]
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.user.update_role")

	var req models.DummyUserRole
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	uid := chi.URLParam(r, "uid")
	u, err := h.service.UpdateRole(r.Context(), middlewarectx.UIDFromContext(r.Context()), uid, req.Role)
	if err != nil {
		apierror.Render(w, r, log, err, "could not update role")
		return
	}

	log.Info("user role changed", slog.String("uid", uid), slog.String("role", req.Role))
	render.JSON(w, r, response.OKWithData(u))
}

// Delete godoc
// @Summary Удалить пользователя
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Нельзя удалить себя"
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{uid} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.user.delete")

	uid := chi.URLParam(r, "uid")
	if err := h.service.DeleteUser(r.Context(), middlewarectx.UIDFromContext(r.Context()), uid); err != nil {
		apierror.Render(w, r, log, err, "could not delete user")
		return
	}

	log.Info("user deleted", slog.String("uid", uid))
	render.JSON(w, r, response.OK())
}
