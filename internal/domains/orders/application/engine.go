package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	catalogdomain "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

// Engine owns the live aggregates of every table. Quantity changes stay in
// memory; only checkout and clear reach the gateway, and the lock is never
// held across a gateway call.
type Engine struct {
	store   ports.AggregateStore
	catalog ports.CatalogReader
	gateway ports.Gateway

	now            func() time.Time
	newOrderID     func() string
	onRefreshError func(context.Context, error)

	mu         sync.Mutex
	committing map[string]struct{}
	reconciled uint64
}

// Option configures the engine.
type Option func(*Engine)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithOrderIDGenerator overrides how checkout draft ids are minted.
func WithOrderIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newOrderID = fn
		}
	}
}

// WithRefreshErrorHandler receives catalog refresh failures that follow a
// successful commit point. The commit itself is still reported as successful.
func WithRefreshErrorHandler(fn func(context.Context, error)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.onRefreshError = fn
		}
	}
}

// NewEngine wires the engine with its store, catalog and gateway.
func NewEngine(store ports.AggregateStore, catalog ports.CatalogReader, gateway ports.Gateway, opts ...Option) *Engine {
	e := &Engine{
		store:          store,
		catalog:        catalog,
		gateway:        gateway,
		now:            time.Now,
		newOrderID:     uuid.NewString,
		onRefreshError: func(context.Context, error) {},
		committing:     map[string]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// AdjustQuantity moves an item's quantity on a table by delta. The table and
// item must both be in the current catalog snapshot. On failure nothing changes.
func (e *Engine) AdjustQuantity(_ context.Context, tableID, itemID string, delta int) (*domain.Aggregate, error) {
	if strings.TrimSpace(tableID) == "" {
		return nil, errMissingTableID
	}
	if strings.TrimSpace(itemID) == "" {
		return nil, errMissingItemID
	}
	snapshot := e.catalog.Snapshot()
	if _, ok := snapshot.Table(tableID); !ok {
		return nil, mapError(domain.ErrUnknownTable)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := domain.Empty(tableID)
	if current, ok := e.store.Get(tableID); ok {
		next = current.Clone()
	}
	at := e.now()
	// lines for items deleted since the last reconcile cannot be priced
	next.Retain(snapshot, at)
	if err := next.Adjust(itemID, delta, snapshot, at); err != nil {
		return nil, mapError(err)
	}
	if next.IsEmpty() {
		e.store.Delete(tableID)
		return domain.Empty(tableID), nil
	}
	e.store.Put(next)
	return next.Clone(), nil
}

// ClearOrder clears the table on the backend and, only once that succeeded,
// removes the lines the table held when the clear started. Lines added while
// the clear was in flight stay, as they do for Checkout. Clearing a table
// without an order still calls the backend.
func (e *Engine) ClearOrder(ctx context.Context, tableID string) error {
	if strings.TrimSpace(tableID) == "" {
		return errMissingTableID
	}
	if !e.knowsTable(tableID) {
		return mapError(domain.ErrUnknownTable)
	}
	if err := e.begin(tableID); err != nil {
		return err
	}
	defer e.finish(tableID)

	e.mu.Lock()
	var cleared []domain.Line
	if current, ok := e.store.Get(tableID); ok {
		cleared = current.SortedLines()
	}
	e.mu.Unlock()

	if err := e.gateway.ClearTable(ctx, tableID); err != nil {
		return mapGatewayError("clear table", err)
	}

	e.mu.Lock()
	if current, ok := e.store.Get(tableID); ok {
		left := current.Clone()
		left.Subtract(cleared, e.catalog.Snapshot(), e.now())
		if left.IsEmpty() {
			e.store.Delete(tableID)
		} else {
			e.store.Put(left)
		}
	}
	e.mu.Unlock()

	e.refresh(ctx)
	return nil
}

// Checkout commits the table's aggregate as an order priced at the current
// snapshot and removes the committed lines. Lines added while the commit was in
// flight stay on the table.
func (e *Engine) Checkout(ctx context.Context, tableID string) (*domain.OrderRecord, error) {
	if strings.TrimSpace(tableID) == "" {
		return nil, errMissingTableID
	}
	if err := e.begin(tableID); err != nil {
		return nil, err
	}
	defer e.finish(tableID)

	snapshot := e.catalog.Snapshot()
	e.mu.Lock()
	pending := domain.Empty(tableID)
	if current, ok := e.store.Get(tableID); ok {
		pending = current.Clone()
	}
	e.mu.Unlock()

	pending.Retain(snapshot, e.now())
	draft, err := domain.DraftFromAggregate(e.newOrderID(), pending, snapshot)
	if err != nil {
		return nil, mapError(err)
	}
	if err := draft.Validate(); err != nil {
		return nil, mapError(err)
	}

	record, err := e.gateway.CommitOrder(ctx, draft)
	if err != nil {
		return nil, mapGatewayError("commit order", err)
	}

	e.mu.Lock()
	if current, ok := e.store.Get(tableID); ok {
		left := current.Clone()
		left.Subtract(draft.CommittedLines(), e.catalog.Snapshot(), e.now())
		if left.IsEmpty() {
			e.store.Delete(tableID)
		} else {
			e.store.Put(left)
		}
	}
	e.mu.Unlock()

	e.refresh(ctx)
	return record, nil
}

// GetAggregate returns a copy of the table's aggregate or the canonical empty one.
func (e *Engine) GetAggregate(_ context.Context, tableID string) *domain.Aggregate {
	e.mu.Lock()
	defer e.mu.Unlock()
	if current, ok := e.store.Get(tableID); ok {
		return current.Clone()
	}
	return domain.Empty(tableID)
}

// ListAggregates returns copies of every live aggregate ordered by table id.
func (e *Engine) ListAggregates(_ context.Context) []*domain.Aggregate {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.store.List()
	out := make([]*domain.Aggregate, 0, len(list))
	for _, agg := range list {
		out = append(out, agg.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableID < out[j].TableID })
	return out
}

// Reconcile applies a new catalog snapshot: aggregates of tables that no longer
// exist are dropped and lines of deleted items are removed. Aggregates of tables
// the backend reports idle are kept. Snapshots older than the last one seen are
// ignored.
func (e *Engine) Reconcile(snapshot *catalogdomain.Snapshot) {
	if snapshot == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if snapshot.Generation < e.reconciled {
		return
	}
	e.reconciled = snapshot.Generation

	at := e.now()
	for _, agg := range e.store.List() {
		if _, ok := snapshot.Table(agg.TableID); !ok {
			e.store.Delete(agg.TableID)
			continue
		}
		next := agg.Clone()
		if !next.Retain(snapshot, at) {
			continue
		}
		if next.IsEmpty() {
			e.store.Delete(agg.TableID)
		} else {
			e.store.Put(next)
		}
	}
}

// knowsTable accepts tables in the snapshot and tables that still hold an
// aggregate, so an order survives a refresh that has not reconciled yet.
func (e *Engine) knowsTable(tableID string) bool {
	if _, ok := e.catalog.Snapshot().Table(tableID); ok {
		return true
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.store.Get(tableID)
	return ok
}

func (e *Engine) begin(tableID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.committing[tableID]; busy {
		return ErrCommitInProgress
	}
	e.committing[tableID] = struct{}{}
	return nil
}

func (e *Engine) finish(tableID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.committing, tableID)
}

func (e *Engine) refresh(ctx context.Context) {
	if _, err := e.catalog.Refresh(ctx); err != nil {
		e.onRefreshError(ctx, err)
	}
}

var _ ports.Service = (*Engine)(nil)
