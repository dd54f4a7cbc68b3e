// Package broker publishes order status notices to RabbitMQ so that other
// consoles and displays can follow changes.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"restaurant-console/logger"
	"restaurant-console/orders"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	conn     *amqp.Connection
	ch       Channel
	exchange string
	timeout  time.Duration
	log      *slog.Logger
	mu       sync.Mutex
}

// Dial connects to url and declares the fanout exchange.
func Dial(url, exchange string, log *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := NewPublisher(ch, exchange, log)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	p.log.Info("connected to rabbitmq", logger.Action("rabbitmq_connected"), slog.String("exchange", exchange))
	return p, nil
}

func NewPublisher(ch Channel, exchange string, log *slog.Logger) (*Publisher, error) {
	if log == nil {
		log = logger.Discard()
	}
	err := ch.ExchangeDeclare(
		exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{ch: ch, exchange: exchange, timeout: 5 * time.Second, log: log}, nil
}

// Notify publishes n as a persistent JSON message.
func (p *Publisher) Notify(ctx context.Context, n orders.Notice) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		"",         // routing key, ignored by fanout
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    n.At,
			MessageId:    n.OrderID,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish notice for %s: %w", n.OrderID, err)
	}
	logger.FromContext(ctx, p.log).Debug("notice published",
		logger.Action("notice_published"),
		slog.String("order_id", n.OrderID),
		slog.String("to", string(n.To)),
	)
	return nil
}

func (p *Publisher) Close() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
