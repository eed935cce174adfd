package worker

import (
	"context"

	"github.com/omegaopinmthechat/highwaydelite/internal/queue"
	"github.com/omegaopinmthechat/highwaydelite/pkg/logger"
	"go.uber.org/zap"
)

// NotificationWorker consumes booking confirmations and records a notification
// per booking. Delivery failures are nacked with requeue so the queue retries.
type NotificationWorker interface {
	Start(ctx context.Context) error
}

type NotificationWorkerImpl struct {
	queue queue.BookingQueue
}

func NewNotificationWorker(queue queue.BookingQueue) NotificationWorker {
	return &NotificationWorkerImpl{
		queue: queue,
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		log := logger.WithComponent("notification-worker")
		for msg := range msgs {
			if err := w.notify(ctx, msg.Data); err != nil {
				log.Warn("notification failed, requeueing",
					zap.String("booking_id", msg.Data.BookingID.String()),
					zap.Error(err))
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

// notify is the delivery step. Today it writes a structured confirmation line;
// an email/SMS provider would slot in here.
func (w *NotificationWorkerImpl) notify(_ context.Context, event *queue.BookingConfirmedEvent) error {
	logger.WithComponent("notification-worker").Info("booking confirmed",
		zap.String("booking_id", event.BookingID.String()),
		zap.String("experience", event.ExperienceTitle),
		zap.String("date", event.Date),
		zap.String("time", event.Time),
		zap.Int("quantity", event.Quantity),
		zap.Float64("total", event.Total),
		zap.String("customer_email", event.CustomerEmail),
	)
	return nil
}
