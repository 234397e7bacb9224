package orders

import (
	"go.temporal.io/sdk/workflow"

	ordersports "github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
	"github.com/itay19101973/E-commerce-system/internal/durable/temporal/sequences"
)

const (
	// OrderExecutionWorkflowName is the public identifier for registering the workflow.
	OrderExecutionWorkflowName = "orders.workflows.Execution"
	// OrderExecutionTaskQueue is the queue consumed by the worker processing order workflows.
	OrderExecutionTaskQueue = "ORDER_EXECUTION"
)

// OrderExecutionWorkflowInput captures the payload required to execute an order.
type OrderExecutionWorkflowInput struct {
	Command ordersports.ExecutionInput
	TraceID string
}

// OrderExecutionWorkflow orchestrates the activity that transitions an order
// to executed and deducts inventory.
func OrderExecutionWorkflow(ctx workflow.Context, input OrderExecutionWorkflowInput) (*ordersports.ExecutionReport, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderExecutionWorkflow started", withTraceID(input.TraceID, "orderId", input.Command.OrderID)...)
	report, err := sequences.RunOrderExecutionSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderExecutionWorkflow failed", withTraceID(input.TraceID, "orderId", input.Command.OrderID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderExecutionWorkflow completed", withTraceID(input.TraceID, "orderId", input.Command.OrderID)...)
	return report, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
