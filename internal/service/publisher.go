package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/auth-service/internal/queue"
)

// LoginPublisher announces successful logins.
type LoginPublisher interface {
	PublishLogin(ctx context.Context, ev queue.LoginEvent) error
}

// NopPublisher drops every event.  Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishLogin(context.Context, queue.LoginEvent) error { return nil }

// AMQPPublisher publishes login events to RabbitMQ.  Errors are logged and
// returned so the caller can choose to ignore them.  Messages are marked as
// persistent.
type AMQPPublisher struct {
	URL    string
	Logger *slog.Logger
}

// dialContext is amqp.Dial bounded by ctx: both the TCP connect and the
// AMQP handshake give up when ctx is done.
func dialContext(ctx context.Context, url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			var d net.Dialer
			conn, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// amqp clears the deadline once the handshake completes
			if deadline, ok := ctx.Deadline(); ok {
				if err := conn.SetDeadline(deadline); err != nil {
					_ = conn.Close()
					return nil, err
				}
			}
			return conn, nil
		},
	})
}

func (p *AMQPPublisher) PublishLogin(ctx context.Context, ev queue.LoginEvent) error {
	conn, err := dialContext(ctx, p.URL)
	if err != nil {
		p.Logger.Warn("rabbitmq: dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Warn("rabbitmq: channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.LoginQueueName, // name
		true,                 // durable
		false,                // autoDelete
		false,                // exclusive
		false,                // noWait
		nil,                  // args
	); err != nil {
		p.Logger.Warn("rabbitmq: queue declare failed", "err", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                   // default exchange
		queue.LoginQueueName, // routing key = queue name
		false,                // mandatory
		false,                // immediate
		pub,
	); err != nil {
		p.Logger.Warn("rabbitmq: publish failed", "err", err)
		return err
	}
	return nil
}
