package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	userdomain "github.com/itay19101973/E-commerce-system/internal/domains/users/domain"
	userports "github.com/itay19101973/E-commerce-system/internal/domains/users/ports"
)

const tracerName = "github.com/itay19101973/E-commerce-system/internal/domains/users/adapters/observability/service"

// Service decorates the identity service with tracing, logging, and metrics.
// Passwords and tokens never appear in span attributes or log records.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core identity service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Register(ctx context.Context, email, fullName, password string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register", trace.WithAttributes(attribute.String("user.email", email)))
	defer span.End()
	s.logInfo(ctx, "registering user", slog.String("email", email))
	result, err := s.inner.Register(ctx, email, fullName, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user", slog.String("email", email))
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "user registered", slog.Int64("user.id", result.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*userports.TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login", trace.WithAttributes(attribute.String("user.email", email)))
	defer span.End()
	pair, err := s.inner.Login(ctx, email, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "login failed", slog.String("email", email))
	}
	s.metrics.recordLogin(ctx)
	return pair, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Refresh")
	defer span.End()
	access, err := s.inner.Refresh(ctx, refreshToken)
	if err != nil {
		return "", s.handleError(ctx, span, err, "token refresh failed")
	}
	s.metrics.recordRefresh(ctx)
	return access, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, refreshToken); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	s.metrics.recordLogout(ctx)
	return nil
}

func (s *Service) Authenticate(ctx context.Context, accessToken string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()
	callerID, err := s.inner.Authenticate(ctx, accessToken)
	if err != nil {
		// Rejected tokens are routine; a span status is enough.
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.Int64("user.id", callerID))
	return callerID, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	registered metric.Int64Counter
	logins     metric.Int64Counter
	refreshes  metric.Int64Counter
	logouts    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.registered", metric.WithDescription("Number of accounts registered"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of successful logins"))
	refreshes, _ := m.Int64Counter("users.service.refreshes", metric.WithDescription("Number of access tokens refreshed"))
	logouts, _ := m.Int64Counter("users.service.logouts", metric.WithDescription("Number of refresh tokens revoked"))
	return serviceMetrics{registered: registered, logins: logins, refreshes: refreshes, logouts: logouts}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered != nil {
		m.registered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRefresh(ctx context.Context) {
	if m.refreshes != nil {
		m.refreshes.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogout(ctx context.Context) {
	if m.logouts != nil {
		m.logouts.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
