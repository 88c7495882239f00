package service

import (
	"context"

	"toppings-pos/internal/model"
)

// CatalogService composes the product catalog of a project.
type CatalogService interface {
	// GetCatalog returns every product of the named project with its eligible toppings.
	GetCatalog(ctx context.Context, projectName string) ([]model.ProductView, error)
}

// OrderService defines operations for order intake and lookup.
type OrderService interface {
	// SubmitOrder validates the request and persists the order header and
	// all of its items in one transaction.
	SubmitOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetOrder retrieves an order by its ID with all items.
	GetOrder(ctx context.Context, id int64) (*model.OrderDetail, error)

	// ListOrderLines returns every order line with product and topping names.
	ListOrderLines(ctx context.Context) ([]model.OrderLine, error)
}
