package monasteryapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/monastery-admin/internal/config"
	_ "github.com/magabrotheeeer/monastery-admin/internal/docs"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/auth/register"
	calendarhandler "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/calendar"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/category"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/health"
	mediahandler "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/media"
	notificationhandler "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/notification"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/payment/paymentconfirm"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/payment/paymentread"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/post"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/tag"
	trebacreate "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/treba/create"
	trebahistory "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/treba/history"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/treba/legacydelete"
	trebalist "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/treba/list"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/treba/price"
	trebaread "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/treba/read"
	trebaremove "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/treba/remove"
	trebastatus "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/treba/status"
	trebaupdate "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/treba/update"
	trebatypehandler "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/trebatype"
	userhandler "github.com/magabrotheeeer/monastery-admin/internal/http/handlers/user"
	"github.com/magabrotheeeer/monastery-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/monastery-admin/internal/metrics"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, svc Services, healthHandler *health.Handler) {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middlewarectx.Logger(logger),
		middleware.Recoverer,
		metrics.Middleware,
	)

	limiter := rate.NewLimiter(rate.Limit(cfg.HTTPServer.RateLimit), cfg.HTTPServer.RateBurst)
	jwtAuth := middlewarectx.JWTMiddleware(svc.Auth, logger)
	staff := middlewarectx.RequireRole(logger, models.RoleAdmin, models.RoleEditor)
	adminOnly := middlewarectx.RequireRole(logger, models.RoleAdmin)

	calendarH := calendarhandler.New(logger, svc.Calendar)
	postH := post.New(logger, svc.Content)
	typeH := trebatypehandler.New(logger, svc.TrebaType)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		r.With(middlewarectx.RateLimitMiddleware(logger, limiter)).
			Post("/treby", trebacreate.New(logger, svc.Treba).ServeHTTP)
		r.Get("/treby/price", price.New(logger, svc.Treba).ServeHTTP)
		r.Get("/treba-types", typeH.List)
		r.Get("/treba-types/{id}", typeH.Get)
		r.Get("/calendar", calendarH.List)
		r.Get("/calendar/{id}", calendarH.Get)
		r.Get("/public/posts", postH.ListPublished)
		r.Get("/public/posts/{slug}", postH.GetBySlug)
		r.Post("/payments/webhook", paymentwebhook.New(logger, svc.Payment).ServeHTTP)

		// Сотрудники: admin и editor
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth, staff)

			r.Get("/treby", trebalist.New(logger, svc.Treba).ServeHTTP)
			r.Get("/treby/{id}", trebaread.New(logger, svc.Treba).ServeHTTP)
			r.Put("/treby/{id}", trebaupdate.New(logger, svc.Treba).ServeHTTP)
			r.Delete("/treby/{id}", trebaremove.New(logger, svc.Treba).ServeHTTP)
			r.Patch("/treby/{id}/status", trebastatus.New(logger, svc.Treba).ServeHTTP)
			r.Get("/treby/{id}/history", trebahistory.New(logger, svc.Treba).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, svc.Payment).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, svc.Payment).ServeHTTP)
			r.Get("/payments/{id}", paymentread.New(logger, svc.Payment).ServeHTTP)
			r.Patch("/payments/{id}/confirm", paymentconfirm.New(logger, svc.Payment).ServeHTTP)

			notificationH := notificationhandler.New(logger, svc.Notification)
			r.Get("/notifications", notificationH.List)
			r.Post("/notifications", notificationH.Create)
			r.Get("/notifications/unread-count", notificationH.Count)
			r.Post("/notifications/read-all", notificationH.MarkAllRead)
			r.Post("/notifications/{id}/read", notificationH.MarkRead)
			r.Delete("/notifications/{id}", notificationH.Delete)

			r.Post("/calendar", calendarH.Create)
			r.Put("/calendar/{id}", calendarH.Update)
			r.Delete("/calendar/{id}", calendarH.Delete)

			categoryH := category.New(logger, svc.Content)
			r.Get("/categories", categoryH.List)
			r.Post("/categories", categoryH.Create)
			r.Get("/categories/{id}", categoryH.Get)
			r.Put("/categories/{id}", categoryH.Update)
			r.Delete("/categories/{id}", categoryH.Delete)

			tagH := tag.New(logger, svc.Content)
			r.Get("/tags", tagH.List)
			r.Post("/tags", tagH.Create)
			r.Get("/tags/{id}", tagH.Get)
			r.Put("/tags/{id}", tagH.Update)
			r.Delete("/tags/{id}", tagH.Delete)

			r.Get("/posts", postH.List)
			r.Post("/posts", postH.Create)
			r.Get("/posts/{id}", postH.Get)
			r.Put("/posts/{id}", postH.Update)
			r.Delete("/posts/{id}", postH.Delete)

			mediaH := mediahandler.New(logger, svc.Media, cfg.Uploads.MaxSize)
			r.Get("/media", mediaH.List)
			r.Post("/media", mediaH.Upload)
			r.Get("/media/{id}", mediaH.Get)
			r.Delete("/media/{id}", mediaH.Delete)
		})

		// Только admin
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth, adminOnly)

			r.Post("/treba-types", typeH.Create)
			r.Put("/treba-types/{id}", typeH.Update)
			r.Delete("/treba-types/{id}", typeH.Delete)

			userH := userhandler.New(logger, svc.Auth)
			r.Get("/users", userH.List)
			r.Get("/users/{uid}", userH.Get)
			r.Patch("/users/{uid}/role", userH.UpdateRole)
			r.Delete("/users/{uid}", userH.Delete)
		})
	})

	r.With(jwtAuth, adminOnly).
		Delete("/api/legacy/treby/{id}", legacydelete.New(logger, svc.Treba).ServeHTTP)

	r.Get("/healthz", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	uploads := strings.TrimSuffix(cfg.Uploads.PublicURL, "/")
	r.Handle(uploads+"/*", http.StripPrefix(uploads+"/", http.FileServer(http.Dir(cfg.Uploads.Dir))))
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}
}
