package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bookahead/backend/utils"
)

// Queue names of the events emitted by the core.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
	EventUserRegistered       = "user.registered"
)

// ReservationEvent describes a reservation that was added to or removed from a table.
type ReservationEvent struct {
	ReservationID   string `json:"reservation_id"`
	TableNumber     int    `json:"table_number"`
	RestaurantName  string `json:"restaurant_name"`
	User            string `json:"user"`
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
	OccurredAt      string `json:"occurred_at"`
}

// UserRegisteredEvent carries what a mail service needs to send the verification link.
type UserRegisteredEvent struct {
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmailToken string `json:"email_token"`
	OccurredAt string `json:"occurred_at"`
}

// EventPublisher delivers domain events to downstream observers.
type EventPublisher interface {
	Publish(ctx context.Context, queue string, payload interface{}) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// AMQPPublisher publishes persistent JSON messages to durable RabbitMQ
// queues via the default exchange. The connection is opened lazily and
// re-dialled after a failure.
type AMQPPublisher struct {
	url  string
	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

func (p *AMQPPublisher) connection() (*amqp.Connection, error) {
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(2 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	p.conn = conn
	return conn, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, queue string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", queue, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.connection()
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare %s: %w", queue, err)
	}

	return ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// publish never fails the caller; delivery problems are only logged.
func publish(ctx context.Context, publisher EventPublisher, queue string, payload interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, queue, payload); err != nil {
		utils.ErrorLogger.Printf("publish %s: %v", queue, err)
	}
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
