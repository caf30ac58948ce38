// Package login реализует HTTP-обработчик входа в админку.
//
// При успешной проверке учетных данных возвращается JWT с ролью пользователя.
package login

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

// Handler обрабатывает HTTP-запросы авторизации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает вход пользователя.
type Service interface {
	Login(ctx context.Context, req models.DummyLogin) (string, models.User, error)
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
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по имени и паролю. Возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyLogin true "Учетные данные пользователя"
// @Success 200 {object} response.Response "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLogin
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}

	token, user, err := h.service.Login(r.Context(), req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not log in")
		return
	}

	log.Info("login success", slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":    token,
		"role":     user.Role,
		"username": user.Username,
		"uid":      user.UUID,
	}))
}
