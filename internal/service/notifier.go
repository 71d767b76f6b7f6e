package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/MacDavicK/TriptiBunglow-Website/internal/queue"
)

// AMQPNotifier publishes domain events to RabbitMQ.  Each publish dials
// its own short-lived connection; traffic is a handful of events per
// booking, so connection reuse buys nothing worth the reconnect logic.
// Errors are logged and returned so callers can ignore them without
// interrupting the request flow.
type AMQPNotifier struct {
	url string
}

// NewAMQPNotifier returns a notifier that publishes to the broker at url.
func NewAMQPNotifier(url string) *AMQPNotifier { return &AMQPNotifier{url: url} }

// BookingConfirmed publishes to the booking.confirmed queue.
func (n *AMQPNotifier) BookingConfirmed(ctx context.Context, ev q.BookingConfirmedEvent) error {
	return n.publish(ctx, q.QueueBookingConfirmed, ev)
}

// AdminAlert publishes to the admin.alert queue.
func (n *AMQPNotifier) AdminAlert(ctx context.Context, ev q.AdminAlertEvent) error {
	return n.publish(ctx, q.QueueAdminAlert, ev)
}

func (n *AMQPNotifier) publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(n.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// NopNotifier discards events.  Used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) BookingConfirmed(context.Context, q.BookingConfirmedEvent) error { return nil }
func (NopNotifier) AdminAlert(context.Context, q.AdminAlertEvent) error             { return nil }
