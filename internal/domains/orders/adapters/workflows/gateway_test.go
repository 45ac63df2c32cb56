package workflows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/workflows/orders"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

type recordingGateway struct {
	commits int
	clears  []string
}

func (g *recordingGateway) CommitOrder(_ context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	g.commits++
	return &domain.OrderRecord{ID: draft.ID, TableID: draft.TableID}, nil
}

func (g *recordingGateway) ClearTable(_ context.Context, tableID string) error {
	g.clears = append(g.clears, tableID)
	return nil
}

func TestInlineCheckout_Delegates(t *testing.T) {
	inner := &recordingGateway{}
	gw := NewInlineCheckout(inner)

	record, err := gw.CommitOrder(context.Background(), domain.OrderDraft{ID: "o1", TableID: "t1"})
	require.NoError(t, err)
	require.Equal(t, "o1", record.ID)
	require.NoError(t, gw.ClearTable(context.Background(), "t1"))
	require.Equal(t, 1, inner.commits)
	require.Equal(t, []string{"t1"}, inner.clears)
}

func TestTemporalCheckout_RequiresClient(t *testing.T) {
	var gw *TemporalCheckout
	_, err := gw.CommitOrder(context.Background(), domain.OrderDraft{ID: "o1"})
	require.Error(t, err)

	gw = NewTemporalCheckout(nil, &recordingGateway{})
	_, err = gw.CommitOrder(context.Background(), domain.OrderDraft{ID: "o1"})
	require.Error(t, err)
	require.NoError(t, gw.ClearTable(context.Background(), "t1"))
}

func TestCheckoutWorkflowID_IsDerivedFromDraft(t *testing.T) {
	require.Equal(t, "order-checkout-abc", checkoutWorkflowID("abc"))
	require.Equal(t, checkoutWorkflowID("abc"), checkoutWorkflowID("abc"))
}

func TestWorkflowTraceID(t *testing.T) {
	require.Empty(t, workflowTraceID(context.Background()))

	traceID := trace.TraceID{1, 2, 3}
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: trace.SpanID{1}})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)
	require.Equal(t, traceID.String(), workflowTraceID(ctx))
}

type failingGateway struct {
	err error
}

func (g failingGateway) CommitOrder(context.Context, domain.OrderDraft) (*domain.OrderRecord, error) {
	return nil, g.err
}

func (g failingGateway) ClearTable(context.Context, string) error { return g.err }

func checkoutDraft() domain.OrderDraft {
	return domain.OrderDraft{
		ID:      "o1",
		TableID: "t1",
		Lines:   []domain.OrderLine{{ItemID: "i1", Quantity: 2, PriceAtTime: decimal.RequireFromString("8.50")}},
		Total:   decimal.RequireFromString("17"),
	}
}

// workflowError runs the checkout workflow against gw and returns the error as
// the client would see it after run.Get.
func workflowError(t *testing.T, gw ports.Gateway, draft domain.OrderDraft) error {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := orderactivities.NewActivities(gw)
	env.RegisterWorkflowWithOptions(orderworkflows.CheckoutWorkflow, workflow.RegisterOptions{Name: orderworkflows.CheckoutWorkflowName})
	env.RegisterActivityWithOptions(acts.CommitOrder, activity.RegisterOptions{Name: orderactivities.CommitOrderActivityName})

	env.ExecuteWorkflow(orderworkflows.CheckoutWorkflowName, orderworkflows.CheckoutWorkflowInput{Draft: draft})
	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	return err
}

func TestCommitError_RestoresTableNotFound(t *testing.T) {
	raw := workflowError(t, failingGateway{err: fmt.Errorf("backend responded 404: %w", ports.ErrTableNotFound)}, checkoutDraft())
	require.False(t, errors.Is(raw, ports.ErrTableNotFound))

	err := commitError(raw)
	require.ErrorIs(t, err, ports.ErrTableNotFound)
	require.False(t, apierrors.IsValidation(err))

	wrapped := apierrors.NewPersistenceError("commit order", err)
	require.ErrorIs(t, wrapped, ports.ErrTableNotFound)
}

func TestCommitError_RestoresValidation(t *testing.T) {
	draft := checkoutDraft()
	draft.Total = decimal.NewFromInt(1)
	require.True(t, apierrors.IsValidation(commitError(workflowError(t, failingGateway{}, draft))))

	rejected := fmt.Errorf("backend responded 400: %w", apierrors.ErrValidation)
	require.True(t, apierrors.IsValidation(commitError(workflowError(t, failingGateway{err: rejected}, checkoutDraft()))))
}

func TestCommitError_LeavesOtherFailuresAlone(t *testing.T) {
	plain := errors.New("deadline exceeded")
	require.Same(t, plain, commitError(plain))
	require.False(t, apierrors.IsValidation(commitError(plain)))
}
