package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/itay19101973/E-commerce-system/internal/domains/orders/domain"
	ordersports "github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
)

const tracerName = "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/observability/service"

// Service decorates the order lifecycle engine with tracing, logging, and
// metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, callerID int64, items []ordersports.ItemRequest) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int64("user.id", callerID), attribute.Int("order.item_count", len(items))))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int64("user.id", callerID), slog.Int("item_count", len(items)))
	result, err := s.inner.CreateOrder(ctx, callerID, items)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.Int64("user.id", callerID))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.ID), slog.Int64("user.id", callerID))
	return result, nil
}

func (s *Service) GetOrdersForUser(ctx context.Context, userID int64) ([]*ordersports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrdersForUser",
		trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	result, err := s.inner.GetOrdersForUser(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.Int64("user.id", userID))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) ReplaceOrderItems(ctx context.Context, orderID, callerID int64, items []ordersports.ItemRequest) (*ordersports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ReplaceOrderItems",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.Int64("user.id", callerID)))
	defer span.End()

	s.logInfo(ctx, "replacing order items", slog.Int64("order.id", orderID), slog.Int("item_count", len(items)))
	result, err := s.inner.ReplaceOrderItems(ctx, orderID, callerID, items)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to replace order items", slog.Int64("order.id", orderID))
	}
	s.logInfo(ctx, "order items replaced", slog.Int64("order.id", orderID))
	return result, nil
}

func (s *Service) ExecuteOrder(ctx context.Context, orderID, callerID int64) (*ordersports.ExecutionReport, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ExecuteOrder",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.Int64("user.id", callerID)))
	defer span.End()

	s.logInfo(ctx, "executing order", slog.Int64("order.id", orderID), slog.Int64("user.id", callerID))
	result, err := s.inner.ExecuteOrder(ctx, orderID, callerID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to execute order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordExecuted(ctx)
	span.SetAttributes(attribute.Float64("order.total_price", result.TotalPrice))
	s.logInfo(ctx, "order executed",
		slog.Int64("order.id", orderID), slog.Float64("total_price", result.TotalPrice))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, orderID, callerID int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.Int64("user.id", callerID)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", orderID))
	if err := s.inner.DeleteOrder(ctx, orderID, callerID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", orderID))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated  metric.Int64Counter
	ordersExecuted metric.Int64Counter
	ordersDeleted  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	executed, _ := m.Int64Counter("orders.service.executed", metric.WithDescription("Number of orders executed"))
	deleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	return serviceMetrics{ordersCreated: created, ordersExecuted: executed, ordersDeleted: deleted}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordExecuted(ctx context.Context) {
	if m.ordersExecuted != nil {
		m.ordersExecuted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

var _ ordersports.Service = (*Service)(nil)
