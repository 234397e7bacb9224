package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	ordersports "github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
)

// ExecuteOrderActivityName runs the one-way order execution transition.
const ExecuteOrderActivityName = "orders.activities.ExecuteOrder"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the order lifecycle service into the Temporal
// activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// ExecuteOrder flips the order to executed and deducts stock. The service's
// compare-and-set on the executed flag makes a duplicate invocation fail
// with an already-executed error rather than deducting twice.
func (a *Activities) ExecuteOrder(ctx context.Context, input ordersports.ExecutionInput) (*ordersports.ExecutionReport, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order execution activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("order execution activity not initialized")
	}
	logger.Info("ExecuteOrder activity started", "orderId", input.OrderID, "userId", input.CallerID)
	report, err := a.service.ExecuteOrder(ctx, input.OrderID, input.CallerID)
	if err != nil {
		logger.Error("ExecuteOrder activity failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("ExecuteOrder activity completed", "orderId", input.OrderID, "totalPrice", report.TotalPrice)
	return report, nil
}
