// Package calendar реализует HTTP-обработчики церковного календаря.
package calendar

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

// Service описывает операции календаря.
type Service interface {
	Create(ctx context.Context, req models.DummyCalendarEvent) (models.CalendarEvent, error)
	Get(ctx context.Context, id int64) (models.CalendarEvent, error)
	List(ctx context.Context, f models.CalendarFilter) (models.List[models.CalendarEvent], error)
	Update(ctx context.Context, id int64, req models.DummyCalendarEvent) (models.CalendarEvent, error)
	Delete(ctx context.Context, id int64) error
}

// Handler объединяет обработчики календаря.
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
// @Summary События календаря
// @Description Возвращает события, пересекающие период [from, to].
// @Tags Calendar
// @Produce  json
// @Param from query string false "DD-MM-YYYY"
// @Param to query string false "DD-MM-YYYY"
// @Param type query string false "feast, fast, service, memorial, other"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /calendar [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.calendar.list")

	f := models.CalendarFilter{Type: r.URL.Query().Get("type"), Page: request.ParsePage(r)}
	var err error
	if f.From, err = request.ParseDate(r, "from"); err == nil {
		f.To, err = request.ParseDate(r, "to")
	}
	if err != nil {
		log.Info("invalid date filter", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	res, err := h.service.List(r.Context(), f)
	if err != nil {
		apierror.Render(w, r, log, err, "could not list events")
		return
	}
	render.JSON(w, r, response.OKWithData(res))
}

// Create godoc
// @Summary Добавить событие
// @Tags Calendar
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyCalendarEvent true "Событие"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректные даты"
// @Failure 422 {object} response.ErrorResponse
// @Router /calendar [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.calendar.create")

	var req models.DummyCalendarEvent
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	ev, err := h.service.Create(r.Context(), req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not create event")
		return
	}

	log.Info("calendar event created", slog.Int64("id", ev.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(ev))
}

// Get godoc
// @Summary Событие по ID
// @Tags Calendar
// @Produce  json
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /calendar/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.calendar.get")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	ev, err := h.service.Get(r.Context(), id)
	if err != nil {
		apierror.Render(w, r, log, err, "could not read event")
		return
	}
	render.JSON(w, r, response.OKWithData(ev))
}

// Update godoc
// @Summary Изменить событие
// @Tags Calendar
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body models.DummyCalendarEvent true "Событие"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /calendar/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.calendar.update")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	var req models.DummyCalendarEvent
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	ev, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not update event")
		return
	}
	render.JSON(w, r, response.OKWithData(ev))
}

// Delete godoc
// @Summary Удалить событие
// @Tags Calendar
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /calendar/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.calendar.delete")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		apierror.Render(w, r, log, err, "could not delete event")
		return
	}
	render.JSON(w, r, response.OK())
}
