// Package create реализует HTTP-обработчик подачи новой требы.
//
// Handler принимает JSON с видом требы, сроком и именами, проверяет его и передает
// в сервис. Стоимость считается на сервере, клиентская сумма не принимается.
package create

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

// Handler управляет HTTP-запросами на создание треб.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику создания требы.
type Service interface {
	Create(ctx context.Context, req models.DummyTreba) (models.Treba, error)
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
// @Summary Подать требу
// @Description Создает требу в статусе pending, проверяет имена и рассчитывает стоимость.
// @Tags Treby
// @Accept  json
// @Produce  json
// @Param request body models.DummyTreba true "Заявка"
// @Success 201 {object} response.Response "Созданная треба"
// @Failure 400 {object} response.ErrorResponse "Нет допустимых имен или неверная дата"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /treby [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.treba.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTreba
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}

	t, err := h.service.Create(r.Context(), req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not create treba")
		return
	}

	log.Info("treba created", slog.Int64("id", t.ID), slog.Int64("price", t.Price))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(t))
}
