package rabbitmq

import (
	"fmt"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/streadway/amqp"
)

// NotificationsQueue получает события, по которым отправляются письма.
const NotificationsQueue = "billing.notifications"

// QueueConfig описывает очередь и ключи маршрутизации, с которыми она
// привязана к обменнику.
type QueueConfig struct {
	QueueName   string
	RoutingKeys []string
}

// BillingQueues возвращает очереди, которые объявляют процессы биллинга.
func BillingQueues() []QueueConfig {
	return []QueueConfig{
		{
			QueueName: NotificationsQueue,
			RoutingKeys: []string{
				string(models.EventPaymentFailed),
				string(models.EventSubscriptionCanceled),
				string(models.EventRenewalUpcoming),
			},
		},
	}
}

// SetupChannel открывает канал, объявляет direct-обменник exchange и
// привязывает к нему очереди.
func SetupChannel(conn *amqp.Connection, exchange string, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeDirect,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		for _, key := range q.RoutingKeys {
			if err := ch.QueueBind(q.QueueName, key, exchange, false, nil); err != nil {
				_ = ch.Close()
				return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w",
					op, q.QueueName, key, err)
			}
		}
	}

	return ch, nil
}
