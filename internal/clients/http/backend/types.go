package backend

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is the wire shape of a menu item on the backend routes.
type Item struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Code     string          `json:"code"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// Table is the wire shape of a dining table.
type Table struct {
	ID     string `json:"id,omitempty"`
	Number int    `json:"number"`
	Status string `json:"status,omitempty"`
}

// OrderItem is one submitted order line; Price is the price at submission.
type OrderItem struct {
	ID       string          `json:"id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderRequest is the body of POST /api/orders. ID is optional and makes the
// request idempotent.
type OrderRequest struct {
	ID          string          `json:"id,omitempty"`
	TableID     string          `json:"table_id"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Order is the persisted order header returned by POST /api/orders.
type Order struct {
	ID          string          `json:"id"`
	TableID     string          `json:"table_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItem     `json:"items,omitempty"`
}

// Ack is the body of delete and clear responses.
type Ack struct {
	Message string `json:"message"`
}

// errorBody covers both problem documents and the legacy {"error": "..."} shape.
type errorBody struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Error  string `json:"error"`
}
