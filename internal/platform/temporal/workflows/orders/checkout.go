package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/platform/temporal/sequences"
)

const (
	// CheckoutTaskQueue is the task queue served by cmd/worker.
	CheckoutTaskQueue = "orders-checkout"
	// CheckoutWorkflowName is the registered name of CheckoutWorkflow.
	CheckoutWorkflowName = "orders.workflows.Checkout"
)

// CheckoutWorkflowInput carries the draft plus the trace id of the request that started it.
type CheckoutWorkflowInput struct {
	Draft   domain.OrderDraft
	TraceID string
}

// CheckoutWorkflow durably commits an order draft.
func CheckoutWorkflow(ctx workflow.Context, input CheckoutWorkflowInput) (*domain.OrderRecord, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("checkout workflow started", "orderId", input.Draft.ID, "traceId", input.TraceID)
	return sequences.RunOrderCommitSequence(ctx, input.Draft)
}
