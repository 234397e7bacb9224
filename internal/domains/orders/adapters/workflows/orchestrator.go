package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
	orderworkflows "github.com/itay19101973/E-commerce-system/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.ExecutionOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.ExecutionOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order execution workflows on a Temporal
// cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderExecutionTaskQueue}
}

// ExecuteOrder starts the Temporal workflow that executes an order. The
// workflow ID includes the trace component, so concurrent requests for the
// same order each start their own run and the repository's compare-and-set
// decides the single winner.
func (o *TemporalOrderWorkflows) ExecuteOrder(ctx context.Context, input ports.ExecutionInput) (*ports.ExecutionReport, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("order-execution-%d-%s", input.OrderID, traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderExecutionWorkflow,
		orderworkflows.OrderExecutionWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		// A retried request can race its earlier attempt to the same
		// workflow ID; attach to the running execution instead of failing.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
			var report ports.ExecutionReport
			if getErr := existingRun.Get(ctx, &report); getErr != nil {
				return nil, getErr
			}
			return &report, nil
		}
		return nil, err
	}
	var report ports.ExecutionReport
	if err := run.Get(ctx, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// InlineOrderWorkflows executes the service directly without Temporal,
// useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the order service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// ExecuteOrder delegates to the application service without durable
// orchestration.
func (o *InlineOrderWorkflows) ExecuteOrder(ctx context.Context, input ports.ExecutionInput) (*ports.ExecutionReport, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.ExecuteOrder(ctx, input.OrderID, input.CallerID)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
