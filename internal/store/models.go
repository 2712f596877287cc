package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// HasStock reports whether quantity units can be taken from the current stock.
func (p *Product) HasStock(quantity int) bool {
	return quantity <= p.Stock
}

type Order struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Details   []OrderDetail `json:"details"`
}

type OrderDetail struct {
	ID        string   `json:"id"`
	OrderID   string   `json:"order_id"`
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// DetailInput is one submitted (product, quantity) line of an order.
type DetailInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
