// AngelaMos | 2026
// rabbitmq.go

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/carterperez-dev/storefront/internal/config"
)

const exchangeKind = "topic"

// amqpChannel is the subset of *amqp.Channel used here.
type amqpChannel interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
	Close() error
}

type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	mu       sync.Mutex
}

func NewRabbitPublisher(cfg config.RabbitMQConfig) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		exchangeKind,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("exchange declare: %w", err)
	}

	return &RabbitPublisher{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		string(evt.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    evt.ID,
			Timestamp:    time.Now().UTC(),
			Type:         string(evt.Type),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}

	return nil
}

func (p *RabbitPublisher) Close() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

// HandlerFunc processes one event. Returning ErrDiscard drops the message;
// any other error requeues it once.
type HandlerFunc func(ctx context.Context, evt Event) error

var ErrDiscard = errors.New("discard event")

type Consumer struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	queue    string
	prefetch int
	logger   *slog.Logger
}

// NewConsumer declares the exchange and a durable queue bound to every
// account and product event.
func NewConsumer(cfg config.RabbitMQConfig, logger *slog.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	cleanup := func() {
		_ = ch.Close()
		_ = conn.Close()
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, exchangeKind, true, false, false, false, nil); err != nil {
		cleanup()
		return nil, fmt.Errorf("exchange declare: %w", err)
	}

	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		cleanup()
		return nil, fmt.Errorf("queue declare: %w", err)
	}

	for _, key := range []string{"account.*", "product.*"} {
		if err := ch.QueueBind(cfg.Queue, key, cfg.Exchange, false, nil); err != nil {
			cleanup()
			return nil, fmt.Errorf("queue bind %s: %w", key, err)
		}
	}

	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 16
	}

	if err := ch.Qos(prefetch, 0, false); err != nil {
		cleanup()
		return nil, fmt.Errorf("qos: %w", err)
	}

	return &Consumer{
		conn:     conn,
		ch:       ch,
		queue:    cfg.Queue,
		prefetch: prefetch,
		logger:   logger,
	}, nil
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context, handle HandlerFunc) error {
	msgs, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.dispatch(ctx, msg, handle)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg amqp.Delivery, handle HandlerFunc) {
	var evt Event
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		c.logger.Warn("bad event payload", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	if err := handle(ctx, evt); err != nil {
		requeue := !errors.Is(err, ErrDiscard) && !msg.Redelivered
		c.logger.Error("event handling failed",
			"event_type", evt.Type,
			"event_id", evt.ID,
			"requeue", requeue,
			"error", err,
		)
		_ = msg.Nack(false, requeue)
		return
	}

	_ = msg.Ack(false)
}

func (c *Consumer) Close() error {
	return errors.Join(c.ch.Close(), c.conn.Close())
}
