package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"toppings-pos/internal/events"
	"toppings-pos/internal/metrics"
	"toppings-pos/internal/model"
	"toppings-pos/internal/repository"
	"toppings-pos/internal/requestid"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Column limits of the orders and items tables: INTEGER keys and quantities,
// NUMERIC(10,2) totals.
const (
	maxColumnInt  = math.MaxInt32
	priceDecimals = 2
)

var maxTotalPrice = decimal.New(1, 8)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	publisher events.Publisher
	txTimeout time.Duration
	logger    zerolog.Logger
}

// NewOrderService creates a new order service. txTimeout bounds the order
// transaction once it has begun.
func NewOrderService(
	orderRepo repository.OrderRepository,
	publisher events.Publisher,
	txTimeout time.Duration,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		publisher: publisher,
		txTimeout: txTimeout,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// SubmitOrder validates the request and persists the order header plus all
// items atomically. Nothing is written when validation fails.
func (s *orderService) SubmitOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	logger := s.logger.With().Str("request_id", requestid.FromContext(ctx)).Logger()

	if err := s.validateOrderRequest(req); err != nil {
		metrics.RecordOrder(metrics.OutcomeRejected)
		logger.Warn().Err(err).Msg("order rejected")
		return nil, err
	}

	order := &model.Order{
		ProjectID:  req.ProjectID,
		UserID:     req.UserID,
		TotalPrice: *req.TotalPrice,
		Status:     model.OrderStatusUnpaid,
		OrderFrom:  req.OrderFrom,
	}
	if order.OrderFrom == "" {
		order.OrderFrom = model.OrderFromSelf
	}

	items := make([]model.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.Item{
			ProductID:  item.ProductID,
			Topping1ID: item.Topping1ID,
			Topping2ID: item.Topping2ID,
			Quantity:   item.Quantity,
		}
	}

	if err := s.persist(ctx, order, items); err != nil {
		metrics.RecordOrder(metrics.OutcomeFailed)
		logger.Error().
			Err(err).
			Int64("project_id", order.ProjectID).
			Int64("user_id", order.UserID).
			Int("item_count", len(items)).
			Msg("order transaction rolled back")
		return nil, err
	}

	metrics.RecordOrder(metrics.OutcomeCommitted)
	logger.Info().
		Int64("order_id", order.ID).
		Int64("project_id", order.ProjectID).
		Int("item_count", len(items)).
		Msg("order created successfully")

	s.publishCreated(ctx, order, len(items))

	return &model.OrderResponse{
		Success: true,
		OrderID: order.ID,
	}, nil
}

// persist runs the order unit of work on one pooled connection. Waiting for
// the connection honours ctx; once the transaction has begun it is detached
// from ctx cancellation and bounded by txTimeout instead.
func (s *orderService) persist(ctx context.Context, order *model.Order, items []model.Item) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return &model.TransactionError{Op: "begin", Err: err}
	}

	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.txTimeout)
	defer cancel()

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(txCtx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(txCtx, tx, order); err != nil {
		return &model.TransactionError{Op: "insert order", Err: err}
	}

	for i := range items {
		items[i].OrderID = order.ID
	}

	if err = s.orderRepo.CreateItems(txCtx, tx, items); err != nil {
		return &model.TransactionError{Op: "insert items", Err: err}
	}

	if err = tx.Commit(txCtx); err != nil {
		return &model.TransactionError{Op: "commit", Err: err}
	}

	return nil
}

// publishCreated announces a committed order. Failures are logged only; the
// order is already durable.
func (s *orderService) publishCreated(ctx context.Context, order *model.Order, itemCount int) {
	evt := events.OrderCreated{
		OrderID:    order.ID,
		ProjectID:  order.ProjectID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		OrderFrom:  order.OrderFrom,
		Status:     order.Status,
		ItemCount:  itemCount,
		CreatedAt:  order.CreatedAt,
	}

	if err := s.publisher.PublishOrderCreated(context.WithoutCancel(ctx), evt); err != nil {
		s.logger.Warn().
			Err(err).
			Int64("order_id", order.ID).
			Msg("failed to publish order created event")
	}
}

// GetOrder retrieves an order by its ID with all items.
func (s *orderService) GetOrder(ctx context.Context, id int64) (*model.OrderDetail, error) {
	if id <= 0 {
		return nil, model.NewValidationError("order id must be positive")
	}

	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Int64("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	if items == nil {
		items = []model.Item{}
	}

	return &model.OrderDetail{
		Order: *order,
		Items: items,
	}, nil
}

// ListOrderLines returns every order line with product and topping names.
func (s *orderService) ListOrderLines(ctx context.Context) ([]model.OrderLine, error) {
	lines, err := s.orderRepo.ListOrderLines(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list order lines")
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	return lines, nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewValidationError("order request is required")
	}

	if req.ProjectID <= 0 {
		return model.NewValidationError("projectId must be positive")
	}
	if req.ProjectID > maxColumnInt {
		return model.NewValidationError("projectId is out of range")
	}

	if req.UserID <= 0 {
		return model.NewValidationError("userId must be positive")
	}

	if req.TotalPrice == nil {
		return model.NewValidationError("totalPrice is required")
	}

	if req.TotalPrice.IsNegative() {
		return model.NewValidationError("totalPrice cannot be negative")
	}

	if !req.TotalPrice.Equal(req.TotalPrice.Round(priceDecimals)) {
		return model.NewValidationError("totalPrice cannot have more than %d decimal places", priceDecimals)
	}

	if req.TotalPrice.GreaterThanOrEqual(maxTotalPrice) {
		return model.NewValidationError("totalPrice must be less than %s", maxTotalPrice)
	}

	switch req.OrderFrom {
	case "", model.OrderFromSelf, model.OrderFromCashier:
	default:
		return model.NewValidationError("orderFrom must be %q or %q", model.OrderFromSelf, model.OrderFromCashier)
	}

	if len(req.Items) == 0 {
		return model.NewValidationError("order must contain at least one item")
	}

	// Validate each item
	for i, item := range req.Items {
		if item.ProductID <= 0 || item.ProductID > maxColumnInt {
			return model.NewValidationError("item %d: productId must be between 1 and %d", i, maxColumnInt)
		}

		if item.Quantity <= 0 || item.Quantity > maxColumnInt {
			return model.NewValidationError("item %d: quantity must be between 1 and %d", i, maxColumnInt)
		}

		if item.Topping1ID != nil && (*item.Topping1ID <= 0 || *item.Topping1ID > maxColumnInt) {
			return model.NewValidationError("item %d: topping1Id must be between 1 and %d", i, maxColumnInt)
		}

		if item.Topping2ID != nil && (*item.Topping2ID <= 0 || *item.Topping2ID > maxColumnInt) {
			return model.NewValidationError("item %d: topping2Id must be between 1 and %d", i, maxColumnInt)
		}
	}

	return nil
}
