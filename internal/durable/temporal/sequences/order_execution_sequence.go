package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersports "github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
	orderactivities "github.com/itay19101973/E-commerce-system/internal/durable/temporal/activities/orders"
)

// RunOrderExecutionSequence executes the single activity that transitions an
// order to executed and deducts stock. The activity is not retried: the
// transition commits on its first success, and a blind retry would only
// observe the already-executed state.
func RunOrderExecutionSequence(ctx workflow.Context, input ordersports.ExecutionInput) (*ordersports.ExecutionReport, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order execution sequence started", "orderId", input.OrderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var report ordersports.ExecutionReport
	err := workflow.ExecuteActivity(ctx, orderactivities.ExecuteOrderActivityName, input).Get(ctx, &report)
	if err != nil {
		logger.Error("order execution sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("order execution sequence completed", "orderId", input.OrderID, "totalPrice", report.TotalPrice)
	return &report, nil
}
