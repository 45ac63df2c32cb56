package memory

import (
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

var _ ports.AggregateStore = (*AggregateStore)(nil)

// AggregateStore is a plain map of live aggregates. Callers serialize access.
type AggregateStore struct {
	aggregates map[string]*domain.Aggregate
}

func NewAggregateStore() *AggregateStore {
	return &AggregateStore{aggregates: map[string]*domain.Aggregate{}}
}

func (s *AggregateStore) Get(tableID string) (*domain.Aggregate, bool) {
	agg, ok := s.aggregates[tableID]
	return agg, ok
}

// Put stores the aggregate, or removes the table when it has no lines.
func (s *AggregateStore) Put(aggregate *domain.Aggregate) {
	if aggregate == nil {
		return
	}
	if aggregate.IsEmpty() {
		delete(s.aggregates, aggregate.TableID)
		return
	}
	s.aggregates[aggregate.TableID] = aggregate
}

func (s *AggregateStore) Delete(tableID string) {
	delete(s.aggregates, tableID)
}

func (s *AggregateStore) List() []*domain.Aggregate {
	list := make([]*domain.Aggregate, 0, len(s.aggregates))
	for _, agg := range s.aggregates {
		list = append(list, agg)
	}
	return list
}
