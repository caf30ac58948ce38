package rabbitmq

// QueueConfig связывает очередь с ключом маршрутизации обменника уведомлений.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Очереди уведомлений.
const (
	QueueEmail      = "notifications.email"
	RoutingKeyEmail = "email"
)

// GetNotificationQueues возвращает очереди, которые объявляют и API, и отправитель писем.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueEmail, RoutingKey: RoutingKeyEmail},
	}
}
