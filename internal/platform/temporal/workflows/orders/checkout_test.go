package orders

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/activities/orders"
)

type flakyGateway struct {
	failures atomic.Int32
	calls    atomic.Int32
	err      error
}

func (g *flakyGateway) CommitOrder(_ context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	if g.failures.Add(-1) >= 0 {
		return nil, errors.New("connection reset")
	}
	return &domain.OrderRecord{ID: draft.ID, TableID: draft.TableID, Total: draft.Total, Status: domain.StatusPending, Lines: draft.Lines}, nil
}

func (g *flakyGateway) ClearTable(context.Context, string) error { return nil }

func testDraft() domain.OrderDraft {
	return domain.OrderDraft{
		ID:      "o1",
		TableID: "t1",
		Lines:   []domain.OrderLine{{ItemID: "i1", Quantity: 3, PriceAtTime: decimal.RequireFromString("8.50")}},
		Total:   decimal.RequireFromString("25.50"),
	}
}

func runCheckout(t *testing.T, gw ports.Gateway, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := orderactivities.NewActivities(gw)
	env.RegisterWorkflowWithOptions(CheckoutWorkflow, workflow.RegisterOptions{Name: CheckoutWorkflowName})
	env.RegisterActivityWithOptions(acts.CommitOrder, activity.RegisterOptions{Name: orderactivities.CommitOrderActivityName})

	env.ExecuteWorkflow(CheckoutWorkflowName, CheckoutWorkflowInput{Draft: draft, TraceID: "trace"})
	require.True(t, env.IsWorkflowCompleted())
	if err := env.GetWorkflowError(); err != nil {
		return nil, err
	}
	var record domain.OrderRecord
	require.NoError(t, env.GetWorkflowResult(&record))
	return &record, nil
}

func TestCheckoutWorkflow_RetriesTransientFailures(t *testing.T) {
	gw := &flakyGateway{}
	gw.failures.Store(2)

	record, err := runCheckout(t, gw, testDraft())
	require.NoError(t, err)
	require.Equal(t, "o1", record.ID)
	require.True(t, decimal.RequireFromString("25.50").Equal(record.Total))
	require.Equal(t, int32(3), gw.calls.Load())
}

func TestCheckoutWorkflow_UnknownTableIsNotRetried(t *testing.T) {
	gw := &flakyGateway{err: ports.ErrTableNotFound}

	_, err := runCheckout(t, gw, testDraft())
	require.Error(t, err)
	require.Equal(t, int32(1), gw.calls.Load())
}

func TestCheckoutWorkflow_InvalidDraftNeverReachesGateway(t *testing.T) {
	gw := &flakyGateway{}
	draft := testDraft()
	draft.Total = decimal.NewFromInt(1)

	_, err := runCheckout(t, gw, draft)
	require.Error(t, err)
	require.Zero(t, gw.calls.Load())
}
