package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("все зависимости доступны", func(t *testing.T) {
		w := httptest.NewRecorder()
		New(logger, map[string]Pinger{"postgres": ok, "redis": ok}).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"postgres":"ok"`)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})

	t.Run("redis недоступен", func(t *testing.T) {
		w := httptest.NewRecorder()
		New(logger, map[string]Pinger{"postgres": ok, "redis": down}).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"redis":"unavailable"`)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	})
}
