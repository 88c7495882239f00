// Package events publishes order lifecycle notifications for downstream
// collaborators such as kitchen displays and payment.
package events

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderCreated is emitted once an order and all of its items are committed.
type OrderCreated struct {
	OrderID    int64           `json:"orderId"`
	ProjectID  int64           `json:"projectId"`
	UserID     int64           `json:"userId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	OrderFrom  string          `json:"orderFrom"`
	Status     string          `json:"status"`
	ItemCount  int             `json:"itemCount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Publisher delivers order events to a broker.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, evt OrderCreated) error
	Close() error
}

// nopPublisher drops every event.
type nopPublisher struct {
	logger zerolog.Logger
}

// NewNopPublisher returns a Publisher used when no broker is configured.
func NewNopPublisher(logger zerolog.Logger) Publisher {
	return &nopPublisher{logger: logger.With().Str("component", "nop-publisher").Logger()}
}

func (p *nopPublisher) PublishOrderCreated(_ context.Context, evt OrderCreated) error {
	p.logger.Debug().Int64("order_id", evt.OrderID).Msg("order event dropped, no broker configured")
	return nil
}

func (p *nopPublisher) Close() error { return nil }
