package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/activities/orders"
)

// RunOrderCommitSequence executes the activities needed to commit an order draft.
func RunOrderCommitSequence(ctx workflow.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order commit sequence started", "orderId", draft.ID, "tableId", draft.TableID)
	commitOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var record domain.OrderRecord
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, commitOptions), orderactivities.CommitOrderActivityName, draft).Get(ctx, &record)
	if err != nil {
		logger.Error("order commit sequence failed", "orderId", draft.ID, "error", err)
		return nil, err
	}
	logger.Info("order commit sequence committed", "orderId", record.ID)
	return &record, nil
}
