package repository

import (
	"context"

	"toppings-pos/internal/model"

	"github.com/jackc/pgx/v5"
)

// CatalogRepository defines read-only access to projects, products and toppings.
type CatalogRepository interface {
	// FindProjectByName resolves a project by its exact name.
	// Returns nil without error when no project matches.
	FindProjectByName(ctx context.Context, name string) (*model.Project, error)

	// ListCatalogRows returns every product of the project left-joined with the
	// toppings of the same project and topping group, ordered by product then topping.
	ListCatalogRows(ctx context.Context, projectID int64) ([]model.CatalogRow, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx acquires a connection and starts a new transaction on it.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts an order header within the provided transaction and
	// sets the store-assigned ID and creation time on order.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateItems inserts the order lines within the provided transaction.
	// It stops at the first failing row.
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.Item) error

	// GetByID retrieves an order by its ID along with its items.
	// Returns nil without error when the order does not exist.
	GetByID(ctx context.Context, id int64) (*model.Order, []model.Item, error)

	// ListOrderLines returns all order lines ordered by user, order and line.
	ListOrderLines(ctx context.Context) ([]model.OrderLine, error)
}
