package ports

import (
	"context"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
)

// Service defines the order use cases exposed to adapters (inbound/driving port).
type Service interface {
	AdjustQuantity(ctx context.Context, tableID, itemID string, delta int) (*domain.Aggregate, error)
	ClearOrder(ctx context.Context, tableID string) error
	Checkout(ctx context.Context, tableID string) (*domain.OrderRecord, error)
	GetAggregate(ctx context.Context, tableID string) *domain.Aggregate
	ListAggregates(ctx context.Context) []*domain.Aggregate
}
