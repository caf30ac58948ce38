// Package metrics объявляет метрики Prometheus приложения и middleware для HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "monastery",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "monastery",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// TrebyCreated считает принятые заявки по виду требы.
	TrebyCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "monastery",
		Name:      "treby_created_total",
		Help:      "Created treba requests by type.",
	}, []string{"type"})

	// StatusTransitions считает смены статусов треб.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "monastery",
		Name:      "treba_status_transitions_total",
		Help:      "Treba status transitions by target status.",
	}, []string{"status"})

	// PaymentsConfirmed считает подтвержденные платежи.
	PaymentsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "monastery",
		Name:      "payments_confirmed_total",
		Help:      "Confirmed payments.",
	})

	// EmailsSent считает письма по результату отправки.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "monastery",
		Name:      "emails_sent_total",
		Help:      "Notification emails by result.",
	}, []string{"result"})
)

// Middleware учитывает запросы по шаблону маршрута chi, а не по фактическому пути.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
