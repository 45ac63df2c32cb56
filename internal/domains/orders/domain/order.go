package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates persisted order progression.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
)

var (
	ErrMissingOrderID = errors.New("order id is required")
	ErrMissingTableID = errors.New("table id is required")
	ErrInvalidLine    = errors.New("order line needs an item, a positive quantity and a non-negative price")
	ErrTotalMismatch  = errors.New("order total does not match its lines")
)

// OrderLine is a committed line with the price snapshotted at commit time.
type OrderLine struct {
	ItemID      string
	Quantity    int
	PriceAtTime decimal.Decimal
}

// Subtotal is quantity times the snapshotted price.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.PriceAtTime.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderDraft is the payload of a commit. ID doubles as the idempotency key.
type OrderDraft struct {
	ID      string
	TableID string
	Lines   []OrderLine
	Total   decimal.Decimal
}

// Validate enforces the draft invariants before it reaches a gateway.
func (d OrderDraft) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrMissingOrderID
	}
	if strings.TrimSpace(d.TableID) == "" {
		return ErrMissingTableID
	}
	if len(d.Lines) == 0 {
		return ErrEmptyOrder
	}
	sum := decimal.Zero
	for _, line := range d.Lines {
		if strings.TrimSpace(line.ItemID) == "" || line.Quantity <= 0 || line.PriceAtTime.IsNegative() {
			return ErrInvalidLine
		}
		sum = sum.Add(line.Subtotal())
	}
	if !sum.Equal(d.Total) {
		return ErrTotalMismatch
	}
	return nil
}

// CommittedLines returns the draft's lines as aggregate lines.
func (d OrderDraft) CommittedLines() []Line {
	lines := make([]Line, 0, len(d.Lines))
	for _, line := range d.Lines {
		lines = append(lines, Line{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return lines
}

// OrderRecord is a persisted order header with its lines.
type OrderRecord struct {
	ID        string
	TableID   string
	Total     decimal.Decimal
	Status    OrderStatus
	Lines     []OrderLine
	CreatedAt time.Time
}

// DraftFromAggregate snapshots the aggregate's lines at current prices.
func DraftFromAggregate(id string, aggregate *Aggregate, prices PriceLookup) (OrderDraft, error) {
	if aggregate.IsEmpty() {
		return OrderDraft{}, ErrEmptyOrder
	}
	draft := OrderDraft{ID: id, TableID: aggregate.TableID, Total: decimal.Zero}
	for _, line := range aggregate.SortedLines() {
		price, ok := prices.Price(line.ItemID)
		if !ok {
			return OrderDraft{}, ErrUnknownItem
		}
		ol := OrderLine{ItemID: line.ItemID, Quantity: line.Quantity, PriceAtTime: price}
		draft.Lines = append(draft.Lines, ol)
		draft.Total = draft.Total.Add(ol.Subtotal())
	}
	return draft, nil
}
