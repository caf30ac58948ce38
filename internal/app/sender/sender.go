// Package sender собирает воркер отправки писем: RabbitMQ, SMTP-транспорт и обработчик очереди.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/monastery-admin/internal/config"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/monastery-admin/internal/services/sender"
)

// App представляет воркер, читающий очередь писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключается к брокеру и объявляет очереди уведомлений.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "sender.New"

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.New(smtp.NewTransport(cfg.SMTP, logger), logger),
		logger:        logger,
	}, nil
}

// Run обрабатывает очередь писем до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.QueueEmail, a.senderService.HandleEmail)
	if err != nil {
		a.logger.Error("failed to start email consumer", sl.Err(err))
		return err
	}
	a.logger.Info("email consumer started", slog.String("queue", rabbitmq.QueueEmail))

	<-ctx.Done()
	a.logger.Info("sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
