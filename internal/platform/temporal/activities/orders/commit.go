package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

const (
	// CommitOrderActivityName writes an order draft through the persistence gateway.
	CommitOrderActivityName = "orders.activities.CommitOrder"

	// ErrTypeInvalidDraft marks a draft the gateway will never accept.
	ErrTypeInvalidDraft = "InvalidOrderDraft"
	// ErrTypeTableNotFound marks a commit against a table the backend does not know.
	ErrTypeTableNotFound = "TableNotFound"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	gateway ports.Gateway
}

// NewActivities wires the persistence gateway into the Temporal activities bundle.
// The gateway must be the direct one, never a workflow-backed gateway.
func NewActivities(gateway ports.Gateway) *Activities {
	return &Activities{gateway: gateway}
}

// CommitOrder persists the draft. Gateways are idempotent on the draft id, so
// a retried attempt returns the order stored by an earlier one.
func (a *Activities) CommitOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.gateway == nil {
		logger.Error("order commit activity not initialized", "orderId", draft.ID)
		return nil, errors.New("order commit activity not initialized")
	}
	if err := draft.Validate(); err != nil {
		logger.Error("CommitOrder received an invalid draft", "orderId", draft.ID, "error", err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidDraft, err)
	}
	logger.Info("CommitOrder activity started", "orderId", draft.ID, "tableId", draft.TableID, "lines", len(draft.Lines))
	record, err := a.gateway.CommitOrder(ctx, draft)
	if err != nil {
		logger.Error("CommitOrder activity failed", "orderId", draft.ID, "error", err)
		switch {
		case errors.Is(err, ports.ErrTableNotFound):
			return nil, temporal.NewNonRetryableApplicationError(apierrors.Message(err), ErrTypeTableNotFound, err)
		case apierrors.IsValidation(err):
			return nil, temporal.NewNonRetryableApplicationError(apierrors.Message(err), ErrTypeInvalidDraft, err)
		}
		return nil, err
	}
	logger.Info("CommitOrder activity completed", "orderId", record.ID)
	return record, nil
}
