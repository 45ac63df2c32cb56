package ports

import (
	"context"

	catalogdomain "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
)

// CatalogReader is what the engine needs from the catalog context.
type CatalogReader interface {
	Snapshot() *catalogdomain.Snapshot
	Refresh(ctx context.Context) (*catalogdomain.Snapshot, error)
}
