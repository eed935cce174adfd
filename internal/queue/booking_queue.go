package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingConfirmedEvent is published after an admission commits. It carries
// enough for downstream consumers (notifications, analytics) without a
// database round trip.
type BookingConfirmedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	ExperienceID    uuid.UUID `json:"experience_id"`
	ExperienceTitle string    `json:"experience_title"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Quantity        int       `json:"quantity"`
	Total           float64   `json:"total"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	ConfirmedAt     time.Time `json:"confirmed_at"`
}

type Delivery struct {
	Data *BookingConfirmedEvent
	Ack  func()
	Nack func(requeue bool)
}

type BookingQueue interface {
	// Publish sends a booking event to the queue.
	Publish(ctx context.Context, event *BookingConfirmedEvent) error
	// Subscribe returns a channel of deliveries from the queue.
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// MemoryBookingQueue backs the queue with a buffered Go channel. Used in
// single-process deployments and in tests.
type MemoryBookingQueue struct {
	ch chan *BookingConfirmedEvent
}

func NewMemoryBookingQueue(bufferSize int) BookingQueue {
	return &MemoryBookingQueue{
		ch: make(chan *BookingConfirmedEvent, bufferSize),
	}
}

func (q *MemoryBookingQueue) Publish(ctx context.Context, event *BookingConfirmedEvent) error {
	select {
	case q.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryBookingQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: event,
					Ack:  func() { /* nothing to settle in memory */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- event
						}
					},
				}
			}
		}
	}()

	return out, nil
}
