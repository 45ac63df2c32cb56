package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	catalogdomain "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

// TableStatusWriter flips the persisted status of a table.
type TableStatusWriter interface {
	SetTableStatus(ctx context.Context, id string, status catalogdomain.TableStatus) error
}

var _ ports.Gateway = (*Gateway)(nil)

// Gateway keeps committed orders in memory and drives table status through
// the in-memory catalog repository.
type Gateway struct {
	tables TableStatusWriter
	now    func() time.Time

	mu     sync.RWMutex
	orders map[string]domain.OrderRecord
	order  []string
}

func NewGateway(tables TableStatusWriter) *Gateway {
	return &Gateway{
		tables: tables,
		now:    time.Now,
		orders: map[string]domain.OrderRecord{},
	}
}

// WithClock overrides the time source for deterministic testing.
func (g *Gateway) WithClock(now func() time.Time) {
	if now != nil {
		g.now = now
	}
}

func (g *Gateway) CommitOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.orders[draft.ID]; ok {
		return cloneRecord(existing), nil
	}
	if err := g.setStatus(ctx, draft.TableID, catalogdomain.TableActive); err != nil {
		return nil, err
	}
	record := domain.OrderRecord{
		ID:        draft.ID,
		TableID:   draft.TableID,
		Total:     draft.Total,
		Status:    domain.StatusPending,
		Lines:     append([]domain.OrderLine(nil), draft.Lines...),
		CreatedAt: g.now().UTC(),
	}
	g.orders[record.ID] = record
	g.order = append(g.order, record.ID)
	return cloneRecord(record), nil
}

func (g *Gateway) ClearTable(ctx context.Context, tableID string) error {
	return g.setStatus(ctx, tableID, catalogdomain.TableIdle)
}

// Orders returns every committed order in commit order.
func (g *Gateway) Orders() []domain.OrderRecord {
	g.mu.RLock()
	defer g.mu.RUnlock()
	list := make([]domain.OrderRecord, 0, len(g.order))
	for _, id := range g.order {
		list = append(list, *cloneRecord(g.orders[id]))
	}
	return list
}

// References reports whether a committed order has a line for the item.
func (g *Gateway) References(itemID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, record := range g.orders {
		for _, line := range record.Lines {
			if line.ItemID == itemID {
				return true
			}
		}
	}
	return false
}

func (g *Gateway) setStatus(ctx context.Context, tableID string, status catalogdomain.TableStatus) error {
	err := g.tables.SetTableStatus(ctx, tableID, status)
	if errors.Is(err, catalogports.ErrNotFound) {
		return ports.ErrTableNotFound
	}
	return err
}

func cloneRecord(r domain.OrderRecord) *domain.OrderRecord {
	r.Lines = append([]domain.OrderLine(nil), r.Lines...)
	return &r
}
