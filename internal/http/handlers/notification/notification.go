// Package notification реализует HTTP-обработчики ленты уведомлений админки.
package notification

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

// Service описывает работу с уведомлениями.
type Service interface {
	Create(ctx context.Context, req models.DummyNotification) (models.Notification, error)
	List(ctx context.Context, f models.NotificationFilter) (models.List[models.Notification], error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// Handler объединяет обработчики уведомлений.
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
// @Summary Уведомления
// @Tags Notifications
// @Produce  json
// @Security BearerAuth
// @Param unread query bool false "Только непрочитанные"
// @Param type query string false "treba_created, treba_status, payment, system"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.notification.list")

	q := r.URL.Query()
	res, err := h.service.List(r.Context(), models.NotificationFilter{
		UnreadOnly: q.Get("unread") == "true",
		Type:       q.Get("type"),
		Page:       request.ParsePage(r),
	})
	if err != nil {
		apierror.Render(w, r, log, err, "could not list notifications")
		return
	}
	render.JSON(w, r, response.OKWithData(res))
}

// Count godoc
// @Summary Число непрочитанных уведомлений
// @Tags Notifications
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/unread-count [get]
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.notification.count")

	n, err := h.service.CountUnread(r.Context())
	if err != nil {
		apierror.Render(w, r, log, err, "could not count notifications")
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]int{"unread": n}))
}

// Create godoc
// @Summary Создать уведомление
// @Description Если указан email, письмо ставится в очередь на отправку.
// @Tags Notifications
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyNotification true "Уведомление"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Router /notifications [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.notification.create")

	var req models.DummyNotification
	if !request.DecodeJSON(w, r, log, h.validate, &req) {
		return
	}
	n, err := h.service.Create(r.Context(), req)
	if err != nil {
		apierror.Render(w, r, log, err, "could not create notification")
		return
	}

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(n))
}

// MarkRead godoc
// @Summary Отметить уведомление прочитанным
// @Tags Notifications
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /notifications/{id}/read [post]
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.notification.mark_read")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	if err := h.service.MarkRead(r.Context(), id); err != nil {
		apierror.Render(w, r, log, err, "could not mark notification")
		return
	}
	render.JSON(w, r, response.OK())
}

// MarkAllRead godoc
// @Summary Отметить все уведомления прочитанными
// @Tags Notifications
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/read-all [post]
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.notification.mark_all_read")

	n, err := h.service.MarkAllRead(r.Context())
	if err != nil {
		apierror.Render(w, r, log, err, "could not mark notifications")
		return
	}

	log.Info("notifications marked read", slog.Int64("count", n))
	render.JSON(w, r, response.OKWithData(map[string]int64{"updated": n}))
}

// Delete godoc
// @Summary Удалить уведомление
// @Tags Notifications
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /notifications/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.notification.delete")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		apierror.Render(w, r, log, err, "could not delete notification")
		return
	}
	render.JSON(w, r, response.OK())
}
