package mapper

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
)

// LineInput is the session payload moving one item's quantity.
type LineInput struct {
	ItemID string `json:"itemId"`
	Delta  *int   `json:"delta"`
}

// LineView is a presentation-ready aggregate line.
type LineView struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name,omitempty"`
	Code     string          `json:"code,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Aggregate is the HTTP representation of a table's running order.
type Aggregate struct {
	TableID   string          `json:"tableId"`
	Lines     map[string]int  `json:"lines"`
	Items     []LineView      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Version   uint64          `json:"version"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
}

// OrderItem is a committed order line as exchanged with the backend routes.
type OrderItem struct {
	ID       string          `json:"id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderRequest is the commit payload of POST /api/orders.
type OrderRequest struct {
	ID          string           `json:"id,omitempty"`
	TableID     string           `json:"table_id"`
	Items       []OrderItem      `json:"items"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
}

// Order is a persisted order.
type Order struct {
	ID          string          `json:"id"`
	TableID     string          `json:"table_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItem     `json:"items"`
}

var (
	ErrMissingDelta = errors.New("delta is required")
	errMissingTotal = errors.New("total_amount is required")
)

// ToDraft converts a commit payload. The id falls back to generate() when the
// client did not supply one.
func ToDraft(req OrderRequest, generate func() string) (domain.OrderDraft, error) {
	if req.TotalAmount == nil {
		return domain.OrderDraft{}, errMissingTotal
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = generate()
	}
	draft := domain.OrderDraft{ID: id, TableID: req.TableID, Total: *req.TotalAmount}
	for _, item := range req.Items {
		draft.Lines = append(draft.Lines, domain.OrderLine{ItemID: item.ID, Quantity: item.Quantity, PriceAtTime: item.Price})
	}
	return draft, nil
}

// FromOrderRecord maps a persisted order.
func FromOrderRecord(record *domain.OrderRecord) Order {
	order := Order{
		ID:          record.ID,
		TableID:     record.TableID,
		TotalAmount: record.Total,
		Status:      string(record.Status),
		CreatedAt:   record.CreatedAt,
		Items:       make([]OrderItem, 0, len(record.Lines)),
	}
	for _, line := range record.Lines {
		order.Items = append(order.Items, OrderItem{ID: line.ItemID, Quantity: line.Quantity, Price: line.PriceAtTime})
	}
	return order
}

// FromAggregate maps an aggregate, decorating its lines from the snapshot.
// Lines whose item has left the snapshot keep a zero price.
func FromAggregate(agg *domain.Aggregate, snapshot *catalogdomain.Snapshot) Aggregate {
	out := Aggregate{
		TableID: agg.TableID,
		Lines:   make(map[string]int, len(agg.Lines)),
		Items:   make([]LineView, 0, len(agg.Lines)),
		Total:   agg.Total,
		Version: agg.Version,
	}
	if !agg.UpdatedAt.IsZero() {
		at := agg.UpdatedAt
		out.UpdatedAt = &at
	}
	for _, line := range agg.SortedLines() {
		out.Lines[line.ItemID] = line.Quantity
		view := LineView{ItemID: line.ItemID, Quantity: line.Quantity, Price: decimal.Zero}
		if item, ok := snapshot.Item(line.ItemID); ok {
			view.Name = item.Name
			view.Code = item.Code
			view.Price = item.Price
		}
		view.Subtotal = view.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		out.Items = append(out.Items, view)
	}
	return out
}

// FromAggregates maps a list, never returning nil.
func FromAggregates(aggs []*domain.Aggregate, snapshot *catalogdomain.Snapshot) []Aggregate {
	out := make([]Aggregate, 0, len(aggs))
	for _, agg := range aggs {
		out = append(out, FromAggregate(agg, snapshot))
	}
	return out
}
