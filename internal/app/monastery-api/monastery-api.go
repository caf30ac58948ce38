// Package monasteryapi собирает HTTP API админки: хранилище, кеш, брокер, сервисы и маршруты.
package monasteryapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/monastery-admin/internal/cache"
	"github.com/magabrotheeeer/monastery-admin/internal/config"
	"github.com/magabrotheeeer/monastery-admin/internal/http/handlers/health"
	"github.com/magabrotheeeer/monastery-admin/internal/imagehost"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/migrations"
	"github.com/magabrotheeeer/monastery-admin/internal/services/auth"
	"github.com/magabrotheeeer/monastery-admin/internal/services/calendar"
	"github.com/magabrotheeeer/monastery-admin/internal/services/content"
	"github.com/magabrotheeeer/monastery-admin/internal/services/media"
	"github.com/magabrotheeeer/monastery-admin/internal/services/notification"
	"github.com/magabrotheeeer/monastery-admin/internal/services/payment"
	"github.com/magabrotheeeer/monastery-admin/internal/services/treba"
	"github.com/magabrotheeeer/monastery-admin/internal/services/trebatype"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// Services — сервисы, которые обслуживают маршруты.
type Services struct {
	Auth         *auth.Service
	Treba        *treba.Service
	TrebaType    *trebatype.Service
	Payment      *payment.Service
	Notification *notification.Service
	Calendar     *calendar.Service
	Content      *content.Service
	Media        *media.Service
}

// App — HTTP-сервер админки и его ресурсы.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	amqp   *amqp.Connection
}

// New подключает зависимости и собирает маршруты. Redis и RabbitMQ необязательны:
// без них справочник читается из базы, а письма не отправляются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "monasteryapi.New"

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{logger: logger, db: db}
	checks := map[string]health.Pinger{"postgres": db}

	var typeCache trebatype.Cache
	if c, err := cache.InitServer(ctx, cfg.RedisConnection); err != nil {
		logger.Warn("redis unavailable, treba type cache disabled", sl.Err(err))
	} else {
		app.cache = c
		typeCache = c
		checks["redis"] = c
	}

	var publisher notification.Publisher
	if conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay); err != nil {
		logger.Warn("rabbitmq unavailable, emails disabled", sl.Err(err))
	} else if ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues()); err != nil {
		logger.Warn("rabbitmq channel setup failed, emails disabled", sl.Err(err))
		_ = conn.Close()
	} else {
		app.amqp = conn
		publisher = rabbitmq.NewPublisher(ch)
	}

	var host media.ImageHost
	if cfg.ImageHost.APIKey != "" {
		host = imagehost.NewClient(cfg.ImageHost.URL, cfg.ImageHost.APIKey, cfg.ImageHost.Timeout)
	}
	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	svc := newServices(cfg, logger, db, typeCache, publisher, host)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, svc, health.New(logger, checks))

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

func newServices(
	cfg *config.Config,
	logger *slog.Logger,
	db *storage.Storage,
	typeCache trebatype.Cache,
	publisher notification.Publisher,
	host media.ImageHost,
) Services {
	trebaTx := func(ctx context.Context, fn func(treba.Repository) error) error {
		return db.InTx(ctx, func(tx *storage.Storage) error { return fn(tx) })
	}
	paymentTx := func(ctx context.Context, fn func(payment.Repository) error) error {
		return db.InTx(ctx, func(tx *storage.Storage) error { return fn(tx) })
	}
	contentTx := func(ctx context.Context, fn func(content.Repository) error) error {
		return db.InTx(ctx, func(tx *storage.Storage) error { return fn(tx) })
	}

	notificationService := notification.New(db, publisher, logger)
	typeService := trebatype.New(db, typeCache, logger)
	trebaService := treba.New(db, trebaTx, typeService, notificationService, logger)

	return Services{
		Auth:         auth.New(db, jwt.NewJWTMaker(cfg.JWTToken.SecretKey, cfg.JWTToken.TokenTTL), logger),
		Treba:        trebaService,
		TrebaType:    typeService,
		Payment:      payment.New(db, paymentTx, trebaService, cfg.Payments.WebhookSecret, logger),
		Notification: notificationService,
		Calendar:     calendar.New(db, logger),
		Content:      content.New(db, contentTx, logger),
		Media: media.New(db, host, media.Options{
			Dir:       cfg.Uploads.Dir,
			PublicURL: cfg.Uploads.PublicURL,
			MaxSize:   cfg.Uploads.MaxSize,
		}, logger),
	}
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis client", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
