package ports

import "github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"

// AggregateStore holds the live aggregates keyed by table id. Implementations
// need not be safe for concurrent use; the engine serializes access.
type AggregateStore interface {
	Get(tableID string) (*domain.Aggregate, bool)
	Put(aggregate *domain.Aggregate)
	Delete(tableID string)
	List() []*domain.Aggregate
}
