// Package events publishes domain events to RabbitMQ for downstream consumers
// (CRM sync, welcome mail). Publishing is optional; the API runs without a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

const DefaultQueue = "waitlist_signups"

type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func NewEvent(eventType string, payload any) Event {
	return Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher writes JSON events to a durable queue on the default exchange.
// Publishes are serialized; a publish that outlives ctx is abandoned, not awaited.
type AMQPPublisher struct {
	conn  *amqp.Connection
	queue string

	// slot holds one token while a publish owns the channel.
	slot chan struct{}
	ch   amqpChannel
}

func newAMQPPublisher(conn *amqp.Connection, ch amqpChannel, queue string) *AMQPPublisher {
	return &AMQPPublisher{conn: conn, ch: ch, queue: queue, slot: make(chan struct{}, 1)}
}

func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("events: declare queue %q: %w", queue, err)
	}

	return newAMQPPublisher(conn, ch, queue), nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := encode(event)
	if err != nil {
		return err
	}

	select {
	case p.slot <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("events: publish %s: %w", event.Type, ctx.Err())
	}

	// The amqp client ignores contexts; the write runs on its own goroutine
	// and releases the slot when the socket returns.
	done := make(chan error, 1)
	go func() {
		defer func() { <-p.slot }()
		done <- p.ch.Publish("", p.queue, false, false, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("events: publish %s: %w", event.Type, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: publish %s: %w", event.Type, ctx.Err())
	}
}

// Close closes the connection, which closes the channel and unblocks a
// stalled publish.
func (p *AMQPPublisher) Close() error {
	if p.conn != nil {
		return p.conn.Close()
	}
	return p.ch.Close()
}

func encode(event Event) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("events: encode %s: %w", event.Type, err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	}, nil
}

// Ping reports whether the broker connection is still open.
func (p *AMQPPublisher) Ping(_ context.Context) error {
	if p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("events: broker connection closed")
	}
	return nil
}
