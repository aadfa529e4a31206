package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"disclosure-intake/internal/domain/analytics"

	"github.com/rabbitmq/amqp091-go"
)

var (
	_ analytics.Publisher = (*EventProducer)(nil)
	_ analytics.Publisher = (*EventProducerFallback)(nil)
)

// channel is the part of *amqp091.Channel the producer needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// EventProducer publishes analytics events to a durable topic exchange,
// routed as "analytics.<eventType>".
type EventProducer struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	ch       channel
	reopen   func() (channel, error)
	exchange string
	declared bool
}

// EventProducerFallback is a no-op publisher used when RabbitMQ is unavailable at startup.
type EventProducerFallback struct{}

func (EventProducerFallback) Publish(ctx context.Context, e *analytics.Event) error {
	slog.DebugContext(ctx, "analytics publish skipped", "mode", "fallback", "event_type", e.EventType)
	return nil
}

func (EventProducerFallback) Close() {}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	// If any stray characters precede the scheme, slice from first occurrence of amqp
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

func routingKey(eventType string) string {
	return "analytics." + strings.ToLower(strings.TrimSpace(eventType))
}

// NewEventProducer dials the broker with a bounded timeout and opens one channel.
func NewEventProducer(amqpURL, exchange string) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	open := func() (channel, error) { return conn.Channel() }
	ch, err := open()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &EventProducer{conn: conn, ch: ch, reopen: open, exchange: exchange}, nil
}

func (p *EventProducer) declare() error {
	if p.declared {
		return nil
	}
	if err := p.ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	p.declared = true
	return nil
}

// Publish sends e as JSON. A failed publish reopens the channel and retries once.
func (p *EventProducer) Publish(ctx context.Context, e *analytics.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    e.Timestamp,
		Type:         e.EventType,
		Body:         body,
	}
	key := routingKey(e.EventType)

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.declare()
	if err == nil {
		err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	}
	if err == nil {
		return nil
	}

	slog.WarnContext(ctx, "publish failed; reopening channel", "exchange", p.exchange, "routing_key", key, "err", err)
	if p.reopen == nil {
		return err
	}
	ch, chErr := p.reopen()
	if chErr != nil {
		return errors.Join(err, chErr)
	}
	_ = p.ch.Close()
	p.ch, p.declared = ch, false
	if err := p.declare(); err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
}

// Close gracefully closes the channel and connection to RabbitMQ.
func (p *EventProducer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
