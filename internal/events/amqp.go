package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"toppings-pos/internal/requestid"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// RoutingKeyOrderCreated is the routing key prefix of OrderCreated events;
// the project id is appended ("orders.created.<projectId>").
const RoutingKeyOrderCreated = "orders.created"

const publishTimeout = 5 * time.Second

// confirmation is the broker's pending answer to one publish.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// channel publishes a message and hands back the confirmation bound to it.
type channel interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
	Close() error
}

// confirmChannel adapts an *amqp.Channel in confirm mode.
type confirmChannel struct {
	ch *amqp.Channel
}

func (c confirmChannel) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("channel is not in confirm mode")
	}
	return dc, nil
}

func (c confirmChannel) Close() error {
	return c.ch.Close()
}

// amqpPublisher publishes events to a topic exchange with publisher confirms.
// Each publish waits only for its own delivery tag, so concurrent publishes
// overlap.
type amqpPublisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   zerolog.Logger
}

// NewAMQPPublisher dials the broker, declares the durable topic exchange and
// enables publisher confirms.
func NewAMQPPublisher(url, exchange string, logger zerolog.Logger) (Publisher, error) {
	logger = logger.With().Str("component", "amqp-publisher").Logger()

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	logger.Info().Str("exchange", exchange).Msg("order event publisher connected")

	return &amqpPublisher{
		conn:     conn,
		ch:       confirmChannel{ch: ch},
		exchange: exchange,
		logger:   logger,
	}, nil
}

// PublishOrderCreated publishes evt and waits for the broker's confirm.
func (p *amqpPublisher) PublishOrderCreated(ctx context.Context, evt OrderCreated) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	routingKey := RoutingKeyOrderCreated + "." + strconv.FormatInt(evt.ProjectID, 10)

	msg := amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		Body:          body,
		MessageId:     uuid.NewString(),
		CorrelationId: requestid.FromContext(ctx),
		Timestamp:     time.Now().UTC(),
		Type:          RoutingKeyOrderCreated,
		Headers: amqp.Table{
			"x-source": "pos-api",
		},
	}

	conf, err := p.ch.Publish(ctx, p.exchange, routingKey, msg)
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("waiting for publish confirm: %w", err)
	}
	if !acked {
		return errors.New("order event NACKed by broker")
	}

	p.logger.Debug().
		Int64("order_id", evt.OrderID).
		Str("routing_key", routingKey).
		Msg("order event published")

	return nil
}

// Close closes the channel and the connection.
func (p *amqpPublisher) Close() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
