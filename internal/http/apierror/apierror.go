// Package apierror сопоставляет ошибки сервисов HTTP-статусам и пишет JSON-ответ с ошибкой.
package apierror

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/monastery-admin/internal/http/request"
	"github.com/magabrotheeeer/monastery-admin/internal/http/response"
	"github.com/magabrotheeeer/monastery-admin/internal/imagehost"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/services/auth"
	"github.com/magabrotheeeer/monastery-admin/internal/services/calendar"
	"github.com/magabrotheeeer/monastery-admin/internal/services/content"
	"github.com/magabrotheeeer/monastery-admin/internal/services/media"
	"github.com/magabrotheeeer/monastery-admin/internal/services/payment"
	"github.com/magabrotheeeer/monastery-admin/internal/services/treba"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

type mapping struct {
	err    error
	status int
}

// Порядок важен: первая подходящая ошибка определяет статус.
var mappings = []mapping{
	{storage.ErrNotFound, http.StatusNotFound},
	{treba.ErrTrebaCancelled, http.StatusGone},

	{treba.ErrNoValidNames, http.StatusBadRequest},
	{treba.ErrInvalidTransition, http.StatusBadRequest},
	{treba.ErrInvalidStatus, http.StatusBadRequest},
	{treba.ErrInvalidDate, http.StatusBadRequest},
	{payment.ErrPaymentExists, http.StatusBadRequest},
	{payment.ErrAlreadyConfirmed, http.StatusBadRequest},
	{payment.ErrNotPending, http.StatusBadRequest},
	{payment.ErrInvalidAmount, http.StatusBadRequest},
	{auth.ErrUserExists, http.StatusBadRequest},
	{auth.ErrSelfModification, http.StatusBadRequest},
	{calendar.ErrInvalidDate, http.StatusBadRequest},
	{calendar.ErrInvalidRange, http.StatusBadRequest},
	{content.ErrEmptySlug, http.StatusBadRequest},
	{media.ErrTooLarge, http.StatusBadRequest},
	{media.ErrUnsupportedType, http.StatusBadRequest},
	{media.ErrExternalUnavailable, http.StatusBadRequest},
	{request.ErrInvalidID, http.StatusBadRequest},
	{storage.ErrAlreadyExists, http.StatusBadRequest},
	{storage.ErrReference, http.StatusBadRequest},
	{storage.ErrConstraint, http.StatusBadRequest},

	{auth.ErrInvalidCredentials, http.StatusUnauthorized},
	{payment.ErrInvalidSignature, http.StatusUnauthorized},

	{imagehost.ErrUpload, http.StatusBadGateway},
	{payment.ErrWebhookUnavailable, http.StatusServiceUnavailable},
}

// Status возвращает HTTP-статус и текст для клиента. Неизвестные ошибки дают 500 и пустой текст.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return m.status, m.err.Error()
		}
	}
	return http.StatusInternalServerError, ""
}

// Render пишет ответ с ошибкой. fallback отдается клиенту вместо текста внутренней ошибки.
func Render(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, fallback string) {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		log.Error(fallback, sl.Err(err))
		if msg == "" {
			msg = fallback
		}
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	w.WriteHeader(status)
	render.JSON(w, r, response.Error(msg))
}
