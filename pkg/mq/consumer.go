package mq

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Handle func(ctx context.Context, msg Message) error

type Consumer interface {
	Consume(ctx context.Context, prefetch int, queue string, handler Handle) error
}

type consumeChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
}

type RabbitConsumer struct {
	ch consumeChannel
}

func NewRabbitConsumer(ch *amqp.Channel) Consumer {
	return &RabbitConsumer{ch: ch}
}

// Consume blocks until ctx is done or the delivery channel closes. A handler error is nacked and
// requeued only when it is temporary.
func (c *RabbitConsumer) Consume(ctx context.Context, prefetch int, queue string, handler Handle) error {
	if prefetch <= 0 {
		prefetch = 1
	}

	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := c.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = c.ch.Cancel("", false)
			time.Sleep(50 * time.Millisecond)
			return ctx.Err()

		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			handleDelivery(ctx, d, d.Acknowledger, handler)
		}
	}
}

func handleDelivery(ctx context.Context, d amqp.Delivery, ack amqp.Acknowledger, handler Handle) {
	err := handler(ctx, Message{Type: d.Type, Body: d.Body})
	if err == nil {
		_ = ack.Ack(d.DeliveryTag, false)
		return
	}

	_ = ack.Nack(d.DeliveryTag, false, IsTemporary(err))
}
