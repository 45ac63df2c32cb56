package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
)

// ErrTableNotFound is returned by gateways when the table does not exist on the backend.
var ErrTableNotFound = errors.New("table not found")

// Gateway is the orders side of the persistence gateway.
type Gateway interface {
	// CommitOrder persists the draft and marks its table active. Committing the
	// same draft id twice returns the stored record.
	CommitOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error)
	// ClearTable marks the table idle. Clearing an idle table succeeds.
	ClearTable(ctx context.Context, tableID string) error
}
