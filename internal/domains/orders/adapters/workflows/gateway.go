package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/workflows/orders"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

var (
	_ ports.Gateway = (*TemporalCheckout)(nil)
	_ ports.Gateway = (*InlineCheckout)(nil)
)

// TemporalCheckout commits orders through the durable checkout workflow and
// clears tables directly on the wrapped gateway.
type TemporalCheckout struct {
	client    client.Client
	taskQueue string
	direct    ports.Gateway
}

// NewTemporalCheckout wires a Temporal client into the checkout gateway.
func NewTemporalCheckout(c client.Client, direct ports.Gateway) *TemporalCheckout {
	return &TemporalCheckout{client: c, taskQueue: orderworkflows.CheckoutTaskQueue, direct: direct}
}

// CommitOrder starts the checkout workflow and waits for its result. The
// workflow id is derived from the draft id so a repeated commit joins the
// running or finished execution instead of committing twice.
func (o *TemporalCheckout) CommitOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal checkout not configured")
	}
	workflowID := checkoutWorkflowID(draft.ID)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.CheckoutWorkflowName,
		orderworkflows.CheckoutWorkflowInput{Draft: draft, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var record domain.OrderRecord
	if err := run.Get(ctx, &record); err != nil {
		return nil, commitError(err)
	}
	return &record, nil
}

// commitError restores the port errors the activity flagged as non-retryable.
// Temporal serializes activity failures, so only the application error type
// survives the round trip.
func commitError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrTypeTableNotFound:
		return fmt.Errorf("%w: %s", ports.ErrTableNotFound, appErr.Message())
	case orderactivities.ErrTypeInvalidDraft:
		return fmt.Errorf("%w: %s", apierrors.ErrValidation, appErr.Message())
	default:
		return err
	}
}

// ClearTable is a single idempotent write, so it bypasses the workflow.
func (o *TemporalCheckout) ClearTable(ctx context.Context, tableID string) error {
	if o == nil || o.direct == nil {
		return errors.New("temporal checkout not configured")
	}
	return o.direct.ClearTable(ctx, tableID)
}

// InlineCheckout commits directly on the gateway without durable orchestration,
// used when Temporal is disabled or unreachable.
type InlineCheckout struct {
	direct ports.Gateway
}

// NewInlineCheckout wraps the gateway for synchronous execution.
func NewInlineCheckout(direct ports.Gateway) *InlineCheckout {
	return &InlineCheckout{direct: direct}
}

func (o *InlineCheckout) CommitOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	if o == nil || o.direct == nil {
		return nil, errors.New("inline checkout not configured")
	}
	return o.direct.CommitOrder(ctx, draft)
}

func (o *InlineCheckout) ClearTable(ctx context.Context, tableID string) error {
	if o == nil || o.direct == nil {
		return errors.New("inline checkout not configured")
	}
	return o.direct.ClearTable(ctx, tableID)
}

func checkoutWorkflowID(draftID string) string {
	return fmt.Sprintf("order-checkout-%s", draftID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
