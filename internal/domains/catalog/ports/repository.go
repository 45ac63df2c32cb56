package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
)

var (
	ErrNotFound  = errors.New("catalog record not found")
	ErrDuplicate = errors.New("catalog record already exists")
	ErrInUse     = errors.New("catalog record is referenced by committed orders")
)

// Repository is the catalog side of the persistence gateway.
type Repository interface {
	ListItems(ctx context.Context) ([]domain.MenuItem, error)
	ListTables(ctx context.Context) ([]domain.Table, error)
	CreateItem(ctx context.Context, fields domain.ItemFields) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, id string, fields domain.ItemFields) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, id string) error
	CreateTable(ctx context.Context, fields domain.TableFields) (*domain.Table, error)
	DeleteTable(ctx context.Context, id string) error
}
