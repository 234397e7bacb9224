package ports

import "context"

// ExecutionInput identifies the order execution being orchestrated.
type ExecutionInput struct {
	OrderID  int64
	CallerID int64
}

// ExecutionOrchestrator runs order executions, either inline or through a
// durable workflow engine. Either way the executed-flag compare-and-set in
// the repository keeps the transition exactly-once.
type ExecutionOrchestrator interface {
	ExecuteOrder(ctx context.Context, input ExecutionInput) (*ExecutionReport, error)
}
