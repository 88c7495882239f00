package model

import "github.com/shopspring/decimal"

// Project is a store or location that scopes a catalog and its orders.
type Project struct {
	ID   int64  `json:"project_id" db:"project_id"`
	Name string `json:"project_name" db:"project_name"`
}

// Product is a sellable item of a project.
type Product struct {
	ID           int64           `json:"id" db:"id"`
	ProjectID    int64           `json:"project_id" db:"project_id"`
	Name         string          `json:"product_name" db:"product_name"`
	Price        decimal.Decimal `json:"product_price" db:"product_price"`
	ToppingGroup *string         `json:"topping_group" db:"topping_group"`
	ToppingLimit int             `json:"topping_limit" db:"topping_limit"`
}

// Topping is an add-on offered to every product of the same project and topping group.
type Topping struct {
	ID        int64           `json:"topping_id" db:"topping_id"`
	ProjectID int64           `json:"project_id" db:"project_id"`
	Group     string          `json:"topping_group" db:"topping_group"`
	Name      string          `json:"topping_name" db:"topping_name"`
	Price     decimal.Decimal `json:"topping_price" db:"topping_price"`
}

// CatalogRow is one flat row of the product/topping left join.
// The topping columns are all NULL when the product has no eligible topping.
type CatalogRow struct {
	ProductID    int64
	ProductName  string
	ProductPrice decimal.Decimal
	ToppingGroup *string
	ToppingLimit int
	ToppingID    *int64
	ToppingName  *string
	ToppingPrice decimal.NullDecimal
}

// ProductView is a product together with its eligible toppings.
type ProductView struct {
	ID           int64           `json:"id"`
	Name         string          `json:"product_name"`
	Price        decimal.Decimal `json:"product_price"`
	ToppingGroup *string         `json:"topping_group"`
	ToppingLimit int             `json:"topping_limit"`
	Toppings     []ToppingView   `json:"toppings"`
}

// ToppingView describes one topping a customer may attach to a product.
type ToppingView struct {
	ID    int64           `json:"topping_id"`
	Name  string          `json:"topping_name"`
	Price decimal.Decimal `json:"topping_price"`
}
