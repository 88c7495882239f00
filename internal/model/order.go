package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Only OrderStatusUnpaid is assigned here; later transitions
// belong to downstream collaborators.
const (
	OrderStatusUnpaid = "unpaid"
)

// Order origins.
const (
	OrderFromSelf    = "self"
	OrderFromCashier = "cashier"
)

// Order represents an order header.
type Order struct {
	ID         int64           `json:"orderId" db:"order_id"`
	ProjectID  int64           `json:"projectId" db:"project_id"`
	UserID     int64           `json:"userId" db:"user_id"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"total_price"`
	Status     string          `json:"status" db:"status"`
	OrderFrom  string          `json:"orderFrom" db:"order_from"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// Item represents a line item in an order. Nil topping ids mean no selection.
type Item struct {
	ID         int64  `json:"-" db:"item_id"`
	OrderID    int64  `json:"-" db:"order_id"`
	ProductID  int64  `json:"productId" db:"product_id"`
	Topping1ID *int64 `json:"topping1Id" db:"topping1_id"`
	Topping2ID *int64 `json:"topping2Id" db:"topping2_id"`
	Quantity   int    `json:"quantity" db:"quantity"`
}

// OrderRequest represents the request payload for submitting an order.
type OrderRequest struct {
	ProjectID  int64              `json:"projectId"`
	UserID     int64              `json:"userId"`
	TotalPrice *decimal.Decimal   `json:"totalPrice"`
	OrderFrom  string             `json:"orderFrom,omitempty"`
	Items      []OrderItemRequest `json:"items"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID  int64  `json:"productId"`
	Topping1ID *int64 `json:"topping1Id,omitempty"`
	Topping2ID *int64 `json:"topping2Id,omitempty"`
	Quantity   int    `json:"quantity"`
}

// OrderResponse represents the response payload for a submitted order.
type OrderResponse struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"orderId"`
}

// OrderLine is one flattened order item joined with its product and topping names.
type OrderLine struct {
	UserID       int64   `json:"user_id"`
	ProductName  string  `json:"product_name"`
	Topping1Name *string `json:"topping1_name"`
	Topping2Name *string `json:"topping2_name"`
	Quantity     int     `json:"quantity"`
}

// OrderDetail is an order header together with its items.
type OrderDetail struct {
	Order Order  `json:"order"`
	Items []Item `json:"items"`
}
