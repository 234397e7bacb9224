package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"gorm.io/gorm"

	catalogmemory "github.com/itay19101973/E-commerce-system/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/itay19101973/E-commerce-system/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/itay19101973/E-commerce-system/internal/domains/catalog/application"
	orderscatalog "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/catalog"
	ordersmemory "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/memory"
	ordersobs "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/itay19101973/E-commerce-system/internal/domains/orders/application"
	ordersports "github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
	orderactivities "github.com/itay19101973/E-commerce-system/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/itay19101973/E-commerce-system/internal/durable/temporal/workflows/orders"
	"github.com/itay19101973/E-commerce-system/internal/platform/migrations"
	platformobservability "github.com/itay19101973/E-commerce-system/internal/platform/observability"
	platformpostgres "github.com/itay19101973/E-commerce-system/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	const serviceName = "commerce-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderService, cleanupRepo := buildOrderService(ctx, instruments, logger)
	defer cleanupRepo()
	orderActivities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderExecutionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderExecutionWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderExecutionWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.ExecuteOrder, activity.RegisterOptions{Name: orderactivities.ExecuteOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderExecutionTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildOrderService wires the order lifecycle engine against postgres when
// available, matching the API process so both sides see the same state.
func buildOrderService(ctx context.Context, instruments *platformobservability.Instruments, logger *slog.Logger) (ordersports.Service, func()) {
	db, cleanup := connectDatabase(ctx, logger)

	var orderRepo ordersports.Repository
	var catalogService *catalogapp.Service
	if db != nil {
		orderRepo = orderspostgres.NewRepository(db)
		catalogService = catalogapp.NewService(catalogpostgres.NewRepository(db))
	} else {
		orderRepo = ordersmemory.NewRepository()
		catalogService = catalogapp.NewService(catalogmemory.NewRepository())
	}

	coreService := ordersapp.NewService(orderRepo, orderscatalog.NewAdapter(catalogService))
	service := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return service, cleanup
}

func connectDatabase(ctx context.Context, logger *slog.Logger) (*gorm.DB, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		return nil, cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to in-memory repositories", slog.String("error", err.Error()))
		cleanup()
		return nil, func() {}
	}
	return db, cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
