package application

import (
	"context"
	"strings"

	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
)

// Service runs the catalog editing flow: validate, write through the gateway,
// then refresh the store so every reader sees the edit.
type Service struct {
	repo           ports.Repository
	store          *Store
	onRefreshError func(context.Context, error)
}

// Option configures the catalog service.
type Option func(*Service)

// WithRefreshErrorHandler receives refresh failures that follow a successful
// write. The write itself is reported as successful.
func WithRefreshErrorHandler(fn func(context.Context, error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.onRefreshError = fn
		}
	}
}

// NewService wires the catalog service with its gateway and store.
func NewService(repo ports.Repository, store *Store, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		store:          store,
		onRefreshError: func(context.Context, error) {},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Snapshot returns the current catalog view.
func (s *Service) Snapshot(_ context.Context) *domain.Snapshot {
	return s.store.Snapshot()
}

// Refresh reloads the catalog from the gateway.
func (s *Service) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	return s.store.Refresh(ctx)
}

// CreateItem validates and persists a new menu item.
func (s *Service) CreateItem(ctx context.Context, fields domain.ItemFields) (*domain.MenuItem, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, mapError("create item", err)
	}
	item, err := s.repo.CreateItem(ctx, fields)
	if err != nil {
		return nil, mapError("create item", err)
	}
	s.refreshAfterWrite(ctx)
	return item, nil
}

// UpdateItem overwrites the editable attributes of an item.
func (s *Service) UpdateItem(ctx context.Context, id string, fields domain.ItemFields) (*domain.MenuItem, error) {
	if err := requireID(id); err != nil {
		return nil, mapError("update item", err)
	}
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, mapError("update item", err)
	}
	item, err := s.repo.UpdateItem(ctx, id, fields)
	if err != nil {
		return nil, mapError("update item", err)
	}
	s.refreshAfterWrite(ctx)
	return item, nil
}

// DeleteItem removes an item from the catalog.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return mapError("delete item", err)
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return mapError("delete item", err)
	}
	s.refreshAfterWrite(ctx)
	return nil
}

// CreateTable validates and persists a new idle table.
func (s *Service) CreateTable(ctx context.Context, fields domain.TableFields) (*domain.Table, error) {
	if err := fields.Validate(); err != nil {
		return nil, mapError("create table", err)
	}
	table, err := s.repo.CreateTable(ctx, fields)
	if err != nil {
		return nil, mapError("create table", err)
	}
	s.refreshAfterWrite(ctx)
	return table, nil
}

// DeleteTable removes a table. Any live order for it is dropped on the refresh.
func (s *Service) DeleteTable(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return mapError("delete table", err)
	}
	if err := s.repo.DeleteTable(ctx, id); err != nil {
		return mapError("delete table", err)
	}
	s.refreshAfterWrite(ctx)
	return nil
}

func (s *Service) refreshAfterWrite(ctx context.Context) {
	if _, err := s.store.Refresh(ctx); err != nil {
		s.onRefreshError(ctx, err)
	}
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errMissingID
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
