package ports

import (
	"context"

	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
)

// Service exposes the catalog editing flow and the catalog store to adapters.
type Service interface {
	Snapshot(ctx context.Context) *domain.Snapshot
	Refresh(ctx context.Context) (*domain.Snapshot, error)
	CreateItem(ctx context.Context, fields domain.ItemFields) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, id string, fields domain.ItemFields) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, id string) error
	CreateTable(ctx context.Context, fields domain.TableFields) (*domain.Table, error)
	DeleteTable(ctx context.Context, id string) error
}
