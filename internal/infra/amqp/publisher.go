// Package amqp publishes committed ledger events to a RabbitMQ topic
// exchange so downstream consumers (budget alerts, exports) can follow the
// event feed without polling.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/pkg/logger"
)

const publishTimeout = 5 * time.Second

// Publisher implements ledger.Publisher on a RabbitMQ topic exchange. The
// event kind ("expense.created", "transfer.deleted", ...) is the routing key.
type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   *logger.Logger
}

// NewPublisher dials the broker and declares the durable exchange.
func NewPublisher(url, exchange string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   log.WithField("component", "amqp_publisher"),
	}, nil
}

// PublishLedgerEvent publishes one committed ledger event. Failures are
// returned to the caller, which treats publishing as best-effort.
func (p *Publisher) PublishLedgerEvent(ctx context.Context, ev ledger.LedgerEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		ev.Kind, // routing key
		false,   // mandatory
		false,   // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.Debug("published ledger event", "kind", ev.Kind, "event_id", ev.EventID)
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
