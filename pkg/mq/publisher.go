package mq

import (
	"context"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Message is one event on the wire. Type travels as the AMQP type property so consumers can route
// without decoding the body.
type Message struct {
	Type string
	Body []byte
}

type Publisher interface {
	Publish(ctx context.Context, exchange string, routingKey string, msg Message) error
}

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	ch publishChannel
}

func NewRabbitPublisher(ch *amqp.Channel) Publisher { return &RabbitPublisher{ch: ch} }

func (r *RabbitPublisher) Publish(ctx context.Context, exchange string, routingKey string, msg Message) error {
	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         msg.Type,
		Timestamp:    time.Now(),
		Body:         msg.Body,
	}

	return r.ch.PublishWithContext(ctx, exchange, routingKey, false, false, publishing)
}

func (r *RabbitPublisher) Close() error {
	if r.ch != nil {
		return r.ch.Close()
	}

	return nil
}
