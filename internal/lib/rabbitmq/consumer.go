package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
)

const prefetch = 10

// ConsumerMessage запускает потребителя очереди. Одновременно обрабатывается не более
// prefetch сообщений, столько же выдает брокер (Qos задается в SetupChannel);
// при ошибке обработчика сообщение возвращается в очередь.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"

	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))
	go dispatch(ctx, log, delivery, prefetch, handler)
	return nil
}

// dispatch раздает сообщения обработчикам, пока не закрыт канал доставки или не отменен ctx.
// Ожидание свободного слота тоже прерывается отменой ctx; невзятое сообщение
// брокер вернет в очередь при закрытии канала.
func dispatch(ctx context.Context, log *slog.Logger, delivery <-chan amqp.Delivery, limit int, handler func([]byte) error) {
	sem := make(chan struct{}, limit)
	for {
		var d amqp.Delivery
		select {
		case msg, ok := <-delivery:
			if !ok {
				return
			}
			d = msg
		case <-ctx.Done():
			return
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return
		}

		go func(d amqp.Delivery) {
			defer func() { <-sem }()
			if err := handler(d.Body); err != nil {
				log.Error("failed to handle message", sl.Err(err))
				if nackErr := d.Nack(false, true); nackErr != nil {
					log.Error("failed to nack message", sl.Err(nackErr))
				}
				return
			}
			if ackErr := d.Ack(false); ackErr != nil {
				log.Error("failed to ack message", sl.Err(ackErr))
			}
		}(d)
	}
}
