package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

const (
	OrderCommittedKey = "order.committed"
	TableClearedKey   = "table.cleared"
)

// EventPublisher sends an event with a routing key.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// TicketLine is one line of a kitchen ticket.
type TicketLine struct {
	ItemID   string          `json:"item_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price_at_time"`
}

// OrderCommittedEvent is the kitchen ticket emitted after a checkout.
type OrderCommittedEvent struct {
	OrderID     string          `json:"order_id"`
	TableID     string          `json:"table_id"`
	Lines       []TicketLine    `json:"lines"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CommittedAt time.Time       `json:"committed_at"`
}

// TableClearedEvent is emitted after a table has been cleared.
type TableClearedEvent struct {
	TableID   string    `json:"table_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

var _ ports.Gateway = (*Gateway)(nil)

// Gateway publishes order events after the wrapped gateway succeeds. A failed
// publish is logged and never fails the commit.
type Gateway struct {
	inner     ports.Gateway
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewGateway(inner ports.Gateway, publisher EventPublisher, logger *slog.Logger) *Gateway {
	return &Gateway{inner: inner, publisher: publisher, logger: logger, now: time.Now}
}

func (g *Gateway) CommitOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	record, err := g.inner.CommitOrder(ctx, draft)
	if err != nil {
		return nil, err
	}
	lines := make([]TicketLine, 0, len(record.Lines))
	for _, line := range record.Lines {
		lines = append(lines, TicketLine{ItemID: line.ItemID, Quantity: line.Quantity, Price: line.PriceAtTime})
	}
	committedAt := record.CreatedAt
	if committedAt.IsZero() {
		committedAt = g.now().UTC()
	}
	g.publish(ctx, OrderCommittedKey, OrderCommittedEvent{
		OrderID:     record.ID,
		TableID:     record.TableID,
		Lines:       lines,
		TotalAmount: record.Total,
		CommittedAt: committedAt,
	})
	return record, nil
}

func (g *Gateway) ClearTable(ctx context.Context, tableID string) error {
	if err := g.inner.ClearTable(ctx, tableID); err != nil {
		return err
	}
	g.publish(ctx, TableClearedKey, TableClearedEvent{TableID: tableID, ClearedAt: g.now().UTC()})
	return nil
}

func (g *Gateway) publish(ctx context.Context, key string, event any) {
	if g.publisher == nil {
		return
	}
	if err := g.publisher.Publish(ctx, key, event); err != nil && g.logger != nil {
		g.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order event",
			slog.String("routing_key", key), slog.String("error", err.Error()))
	}
}
