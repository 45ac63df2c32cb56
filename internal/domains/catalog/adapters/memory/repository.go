package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog backend for development and tests.
type Repository struct {
	mu     sync.RWMutex
	items  map[string]domain.MenuItem
	tables map[string]domain.Table
	newID  func() string
	inUse  func(itemID string) bool
}

func NewRepository() *Repository {
	return &Repository{
		items:  map[string]domain.MenuItem{},
		tables: map[string]domain.Table{},
		newID:  uuid.NewString,
	}
}

// WithIDGenerator overrides id generation for deterministic tests.
func (r *Repository) WithIDGenerator(fn func() string) {
	if fn != nil {
		r.newID = fn
	}
}

// WithItemInUse installs the check DeleteItem uses to refuse items that
// committed orders still reference.
func (r *Repository) WithItemInUse(fn func(itemID string) bool) {
	r.inUse = fn
}

// ListItems returns items ordered by name.
func (r *Repository) ListItems(_ context.Context) ([]domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		list = append(list, item)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].ID < list[j].ID
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

// ListTables returns tables ordered by number.
func (r *Repository) ListTables(_ context.Context) ([]domain.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Table, 0, len(r.tables))
	for _, table := range r.tables {
		list = append(list, table)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
	return list, nil
}

func (r *Repository) CreateItem(_ context.Context, fields domain.ItemFields) (*domain.MenuItem, error) {
	item, err := domain.NewMenuItem(r.newID(), fields)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.codeTaken(item.Code, "") {
		return nil, ports.ErrDuplicate
	}
	r.items[item.ID] = *item
	clone := *item
	return &clone, nil
}

func (r *Repository) UpdateItem(_ context.Context, id string, fields domain.ItemFields) (*domain.MenuItem, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if r.codeTaken(fields.Code, id) {
		return nil, ports.ErrDuplicate
	}
	item.Apply(fields)
	r.items[id] = item
	return &item, nil
}

// DeleteItem removes an item unless committed orders reference it. The check
// runs outside the repository lock since the orders gateway calls back into
// SetTableStatus while holding its own.
func (r *Repository) DeleteItem(_ context.Context, id string) error {
	if r.inUse != nil && r.inUse(id) {
		r.mu.RLock()
		_, ok := r.items[id]
		r.mu.RUnlock()
		if ok {
			return ports.ErrInUse
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) CreateTable(_ context.Context, fields domain.TableFields) (*domain.Table, error) {
	table, err := domain.NewTable(r.newID(), fields)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tables {
		if existing.Number == table.Number {
			return nil, ports.ErrDuplicate
		}
	}
	r.tables[table.ID] = *table
	clone := *table
	return &clone, nil
}

func (r *Repository) DeleteTable(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.tables, id)
	return nil
}

// SetTableStatus flips the persisted status of a table.
func (r *Repository) SetTableStatus(_ context.Context, id string, status domain.TableStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.tables[id]
	if !ok {
		return ports.ErrNotFound
	}
	table.Status = status
	r.tables[id] = table
	return nil
}

func (r *Repository) codeTaken(code, exceptID string) bool {
	for id, item := range r.items {
		if id != exceptID && item.Code == code {
			return true
		}
	}
	return false
}
