package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	catalogmemory "github.com/itay19101973/E-commerce-system/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/itay19101973/E-commerce-system/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/itay19101973/E-commerce-system/internal/domains/catalog/application"
	catalogports "github.com/itay19101973/E-commerce-system/internal/domains/catalog/ports"

	orderscatalog "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/catalog"
	ordersmemory "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/memory"
	ordersobs "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/itay19101973/E-commerce-system/internal/domains/orders/application"
	ordersports "github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"

	statssources "github.com/itay19101973/E-commerce-system/internal/domains/statistics/adapters/sources"
	statsapp "github.com/itay19101973/E-commerce-system/internal/domains/statistics/application"

	usersmemory "github.com/itay19101973/E-commerce-system/internal/domains/users/adapters/memory"
	usersobs "github.com/itay19101973/E-commerce-system/internal/domains/users/adapters/observability"
	userspostgres "github.com/itay19101973/E-commerce-system/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/itay19101973/E-commerce-system/internal/domains/users/application"
	usersports "github.com/itay19101973/E-commerce-system/internal/domains/users/ports"

	"github.com/itay19101973/E-commerce-system/internal/platform/migrations"
	platformobservability "github.com/itay19101973/E-commerce-system/internal/platform/observability"
	platformpostgres "github.com/itay19101973/E-commerce-system/internal/platform/postgres"
	"github.com/itay19101973/E-commerce-system/internal/transport/httpapi"
)

// Run boots the commerce HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "commerce-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, cleanupDB := connectDatabase(ctx, cfg, logger)
	defer cleanupDB()

	repos := buildRepositories(db, logger)

	catalogService := catalogapp.NewService(repos.catalog)
	if cfg.ProductsCSV != "" {
		importProducts(ctx, cfg.ProductsCSV, repos.catalog, logger)
	}

	tokenManager := usersapp.NewTokenManager([]byte(cfg.JWTSecret), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := usersobs.New(
		usersapp.NewService(repos.users, repos.tokens, tokenManager),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	coreOrderService := ordersapp.NewService(repos.orders, orderscatalog.NewAdapter(catalogService))
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderExecution ordersports.ExecutionOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, executing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderExecution = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	statisticsService := statsapp.NewService(
		statssources.NewOrderSource(repos.orders),
		statssources.NewCatalogSource(catalogService),
	)

	handlers := httpapi.ApiHandleFunctions{
		UsersAPI:      httpapi.NewUsersAPI(userService),
		CatalogAPI:    httpapi.NewCatalogAPI(catalogService),
		OrdersAPI:     httpapi.NewOrdersAPI(orderService, orderExecution),
		StatisticsAPI: httpapi.NewStatisticsAPI(statisticsService),
	}

	router := httpapi.NewRouter(handlers, httpapi.RequireAuth(userService))
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("commerce API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("commerce API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

type repositories struct {
	users   usersports.Repository
	tokens  usersports.TokenStore
	catalog catalogports.Repository
	orders  ordersports.Repository
}

// connectDatabase dials PostgreSQL and applies migrations. A missing DSN or
// failed connection falls back to nil, which selects in-memory adapters.
func connectDatabase(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("postgres connection established")
	return db, func() { _ = sqlDB.Close() }
}

func buildRepositories(db *gorm.DB, logger *slog.Logger) repositories {
	if db == nil {
		return repositories{
			users:   usersmemory.NewRepository(),
			tokens:  usersmemory.NewTokenStore(),
			catalog: catalogmemory.NewRepository(),
			orders:  ordersmemory.NewRepository(),
		}
	}
	logger.Info("repositories configured with postgres")
	return repositories{
		users:   userspostgres.NewRepository(db),
		tokens:  userspostgres.NewTokenStore(db),
		catalog: catalogpostgres.NewRepository(db),
		orders:  orderspostgres.NewRepository(db),
	}
}

func importProducts(ctx context.Context, path string, repo catalogports.Repository, logger *slog.Logger) {
	importer := catalogapp.NewImporter(repo, logger)
	if _, err := importer.ImportFile(ctx, path); err != nil {
		logger.Warn("product import failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
