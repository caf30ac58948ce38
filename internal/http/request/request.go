// Package request разбирает параметры HTTP-запросов: идентификаторы, пагинацию и тела JSON.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/monastery-admin/internal/http/response"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// DateLayout — формат дат в параметрах запроса.
const DateLayout = "02-01-2006"

// ErrInvalidID возвращается, если идентификатор в URL не положительное число.
var ErrInvalidID = errors.New("invalid id")

// ParseID читает положительный int64 из URL-параметра.
func ParseID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ParsePage читает limit, offset, sort и order из строки запроса.
func ParsePage(r *http.Request) models.Page {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	desc := strings.EqualFold(q.Get("order"), "desc")
	return models.NewPage(limit, offset, q.Get("sort"), desc)
}

// ParseDate читает дату DD-MM-YYYY из строки запроса; отсутствующий параметр дает nil.
func ParseDate(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("parameter %s: expected DD-MM-YYYY", name)
	}
	return &d, nil
}

// DecodeJSON декодирует тело запроса и проверяет его валидатором.
// При ошибке ответ уже записан (400 или 422) и возвращается false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, validate *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return false
		}
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return false
	}
	return true
}
