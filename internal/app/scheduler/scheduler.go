// Package scheduler собирает фоновый процесс напоминаний о требах с истекшим сроком.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/monastery-admin/internal/config"
	"github.com/magabrotheeeer/monastery-admin/internal/services/notification"
	"github.com/magabrotheeeer/monastery-admin/internal/services/reminder"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

// App представляет приложение планировщика.
type App struct {
	db       *storage.Storage
	reminder *reminder.Service
	interval time.Duration
	logger   *slog.Logger
}

func waitForDB(ctx context.Context, db *storage.Storage) error {
	for range 10 {
		if err := db.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Напоминания адресованы сотрудникам, письма не нужны.
	notifier := notification.New(db, nil, logger)

	return &App{
		db:       db,
		reminder: reminder.New(db, notifier, logger),
		interval: cfg.Scheduler.Interval,
		logger:   logger,
	}, nil
}

// Run запускает планировщик и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("scheduler started", slog.Duration("interval", a.interval))
	a.reminder.Run(ctx, a.interval)

	a.logger.Info("shutting down scheduler service")
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.Any("err", err))
	}
	return nil
}
