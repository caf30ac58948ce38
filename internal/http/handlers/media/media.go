// Package media реализует HTTP-обработчики загрузки и учета файлов.
package media

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/monastery-admin/internal/http/apierror"
	"github.com/magabrotheeeer/monastery-admin/internal/http/request"
	"github.com/magabrotheeeer/monastery-admin/internal/http/response"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
	mediasvc "github.com/magabrotheeeer/monastery-admin/internal/services/media"
)

// FormField — имя поля multipart-формы с файлом.
const FormField = "file"

// запас на заголовки multipart сверх размера файла
const multipartOverhead = 1 << 20

// Service описывает работу с файлами.
type Service interface {
	Save(ctx context.Context, up mediasvc.Upload) (models.Media, error)
	Get(ctx context.Context, id int64) (models.Media, error)
	List(ctx context.Context, page models.Page) (models.List[models.Media], error)
	Delete(ctx context.Context, id int64) error
}

// Handler объединяет обработчики файлов.
type Handler struct {
	log     *slog.Logger
	service Service
	maxSize int64
}

// New создает новый Handler. maxSize ограничивает размер тела запроса.
func New(log *slog.Logger, service Service, maxSize int64) *Handler {
	return &Handler{log: log, service: service, maxSize: maxSize}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Upload godoc
// @Summary Загрузить файл
// @Description Изображение или PDF. С external=true изображение уходит на внешний хостинг.
// @Tags Media
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param file formData file true "Файл"
// @Param external query bool false "Загрузить на внешний хостинг"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Недопустимый тип или размер"
// @Failure 502 {object} response.ErrorResponse "Хостинг отклонил файл"
// @Router /media [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.media.upload")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+multipartOverhead)
	file, header, err := r.FormFile(FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		msg := "multipart field \"file\" is required"
		if errors.As(err, &tooLarge) {
			msg = mediasvc.ErrTooLarge.Error()
		}
		log.Info("invalid upload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(msg))
		return
	}
	defer file.Close()

	m, err := h.service.Save(r.Context(), mediasvc.Upload{
		OriginalName: header.Filename,
		Content:      file,
		External:     r.URL.Query().Get("external") == "true",
	})
	if err != nil {
		apierror.Render(w, r, log, err, "could not save file")
		return
	}

	log.Info("file uploaded", slog.Int64("id", m.ID), slog.String("storage", m.Storage), slog.Int64("size", m.Size))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(m))
}

// List godoc
// @Summary Файлы
// @Tags Media
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Router /media [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.media.list")

	res, err := h.service.List(r.Context(), request.ParsePage(r))
	if err != nil {
		apierror.Render(w, r, log, err, "could not list files")
		return
	}
	render.JSON(w, r, response.OKWithData(res))
}

// Get godoc
// @Summary Файл по ID
// @Tags Media
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /media/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.media.get")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		apierror.Render(w, r, log, err, "could not read file")
		return
	}
	render.JSON(w, r, response.OKWithData(m))
}

// Delete godoc
// @Summary Удалить файл
// @Tags Media
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /media/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.media.delete")

	id, err := request.ParseID(r, "id")
	if err != nil {
		apierror.Render(w, r, log, err, "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		apierror.Render(w, r, log, err, "could not delete file")
		return
	}

	log.Info("file deleted", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
