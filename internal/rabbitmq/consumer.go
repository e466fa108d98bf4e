package rabbitmq

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"notification-service/internal/apperr"
	"notification-service/internal/observability"
)

// TriggerHandler processes one consumed trigger event.
type TriggerHandler interface {
	Handle(ctx context.Context, routingKey string, body []byte) error
}

// Consumer binds a queue to the trigger exchange and feeds deliveries into a
// TriggerHandler. Transient handler errors nack with requeue so the broker
// redelivers; everything else is acked and absorbed.
type Consumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	tag   string
}

// NewConsumer connects and declares the exchange, queue, and bindings.
func NewConsumer(amqpURL, exchange, queue string, routingKeys []string) (*Consumer, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(queue, key, exchange, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	return &Consumer{
		conn:  conn,
		ch:    ch,
		queue: queue,
		tag:   "notification-service-" + uuid.NewString(),
	}, nil
}

// Start consumes deliveries until the context is cancelled or the channel
// closes. It runs the delivery loop in a goroutine and returns immediately.
func (c *Consumer) Start(ctx context.Context, handler TriggerHandler) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, c.tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	go func() {
		for delivery := range deliveries {
			c.process(ctx, handler, delivery)
		}
		log.Printf("rabbitmq consumer stopped queue=%s", c.queue)
	}()

	log.Printf("rabbitmq consumer started queue=%s", c.queue)
	return nil
}

func (c *Consumer) process(ctx context.Context, handler TriggerHandler, delivery amqp.Delivery) {
	err := handler.Handle(ctx, delivery.RoutingKey, delivery.Body)
	if err == nil {
		_ = delivery.Ack(false)
		return
	}

	observability.IncAMQPConsumeError()
	if apperr.IsKind(err, apperr.KindTransient) {
		log.Printf("trigger failed, requeueing key=%s: %v", delivery.RoutingKey, err)
		_ = delivery.Nack(false, true)
		return
	}

	// Non-transient failures will not improve on redelivery.
	log.Printf("trigger failed, dropping key=%s: %v", delivery.RoutingKey, err)
	_ = delivery.Nack(false, false)
}

// Close shuts the channel and connection down.
func (c *Consumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
