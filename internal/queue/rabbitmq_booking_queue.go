package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/omegaopinmthechat/highwaydelite/pkg/logger"
	"go.uber.org/zap"
)

const rabbitQueueName = "booking.confirmed"

// RabbitMQBookingQueue backs BookingQueue with a durable RabbitMQ queue.
// Messages are published persistent and acked manually by the consumer.
type RabbitMQBookingQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbitMQBookingQueue(url string) (BookingQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	// idempotent; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(rabbitQueueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	return &RabbitMQBookingQueue{conn: conn, ch: ch}, nil
}

func (q *RabbitMQBookingQueue) Publish(ctx context.Context, event *BookingConfirmedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := q.ch.PublishWithContext(ctx, "", rabbitQueueName, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}

	return nil
}

func (q *RabbitMQBookingQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	ch, err := q.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.Qos(50, 0, false); err != nil {
		logger.WithComponent("mq").Warn("set QoS failed", zap.Error(err))
	}

	msgs, err := ch.Consume(rabbitQueueName, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}

	out := make(chan Delivery)

	go func() {
		defer close(out)
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					logger.WithComponent("mq").Warn("rabbitmq deliveries channel closed")
					return
				}

				var event BookingConfirmedEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					logger.WithComponent("mq").Warn("unmarshal event failed", zap.Error(err))
					// reject without requeue to avoid a tight redelivery loop
					_ = d.Nack(false, false)
					continue
				}

				delivery := d
				select {
				case out <- Delivery{
					Data: &event,
					Ack: func() {
						if err := delivery.Ack(false); err != nil {
							logger.WithComponent("mq").Error("ack failed", zap.Error(err))
						}
					},
					Nack: func(requeue bool) {
						if err := delivery.Nack(false, requeue); err != nil {
							logger.WithComponent("mq").Error("nack failed", zap.Error(err))
						}
					},
				}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Close shuts down the channel and connection.
func (q *RabbitMQBookingQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		return err
	}
	return q.conn.Close()
}
