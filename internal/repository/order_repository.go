package repository

import (
	"context"
	"errors"
	"fmt"

	"toppings-pos/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	db     DB
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(db DB, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx acquires a connection and starts a new transaction on it.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts an order header within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (project_id, user_id, total_price, status, order_from)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING order_id, created_at
	`

	err := tx.QueryRow(ctx, query,
		order.ProjectID,
		order.UserID,
		order.TotalPrice,
		order.Status,
		order.OrderFrom,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("project_id", order.ProjectID).
			Int64("user_id", order.UserID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Msg("order created")

	return nil
}

// CreateItems inserts the order lines within the provided transaction.
func (r *orderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO items (order_id, product_id, topping1_id, topping2_id, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.OrderID, item.ProductID, item.Topping1ID, item.Topping2ID, item.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", items[i].OrderID).
				Int64("product_id", items[i].ProductID).
				Int("line", i).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item %d: %w", i, err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, []model.Item, error) {
	orderQuery := `
		SELECT order_id, project_id, user_id, total_price, status, order_from, created_at
		FROM orders
		WHERE order_id = $1
	`

	var order model.Order
	err := r.db.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.ProjectID,
		&order.UserID,
		&order.TotalPrice,
		&order.Status,
		&order.OrderFrom,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("order_id", id).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT item_id, order_id, product_id, topping1_id, topping2_id, quantity
		FROM items
		WHERE order_id = $1
		ORDER BY item_id
	`

	rows, err := r.db.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order items")
		return nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Topping1ID, &item.Topping2ID, &item.Quantity)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, items, nil
}

// ListOrderLines returns all order lines flattened with product and topping names.
func (r *orderRepository) ListOrderLines(ctx context.Context) ([]model.OrderLine, error) {
	query := `
		SELECT
			o.user_id,
			p.product_name,
			t1.topping_name,
			t2.topping_name,
			i.quantity
		FROM items i
		JOIN orders o ON o.order_id = i.order_id
		JOIN product p ON p.id = i.product_id
		LEFT JOIN topping t1 ON t1.topping_id = i.topping1_id
		LEFT JOIN topping t2 ON t2.topping_id = i.topping2_id
		ORDER BY o.user_id, o.order_id, i.item_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order lines")
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	lines := []model.OrderLine{}
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.UserID, &l.ProductName, &l.Topping1Name, &l.Topping2Name, &l.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order line row")
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order line rows")
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return lines, nil
}
