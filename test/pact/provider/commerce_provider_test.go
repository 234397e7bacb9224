//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/itay19101973/E-commerce-system/test/pact"

	catalogmemory "github.com/itay19101973/E-commerce-system/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/itay19101973/E-commerce-system/internal/domains/catalog/application"
	orderscatalog "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/catalog"
	ordersmemory "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/memory"
	ordersworkflows "github.com/itay19101973/E-commerce-system/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/itay19101973/E-commerce-system/internal/domains/orders/application"
	statssources "github.com/itay19101973/E-commerce-system/internal/domains/statistics/adapters/sources"
	statsapp "github.com/itay19101973/E-commerce-system/internal/domains/statistics/application"
	usersmemory "github.com/itay19101973/E-commerce-system/internal/domains/users/adapters/memory"
	usersapp "github.com/itay19101973/E-commerce-system/internal/domains/users/application"
	"github.com/itay19101973/E-commerce-system/internal/transport/httpapi"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestCommerceProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateUsersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, false)
			return nil, nil
		},
		pacttest.StateCatalogSeeded: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, setup)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t, false)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves the API over a stable URL while every state
// reset swaps in a freshly built in-memory stack underneath.
type contractProviderApp struct {
	mu     sync.RWMutex
	router http.Handler
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t, false)

	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB, seedCatalog bool) {
	t.Helper()

	catalogRepo := catalogmemory.NewRepository()
	catalogService := catalogapp.NewService(catalogRepo)
	if seedCatalog {
		seedContractCatalog(t, catalogService)
	}

	ordersRepo := ordersmemory.NewRepository()
	orderService := ordersapp.NewService(ordersRepo, orderscatalog.NewAdapter(catalogService))
	orderExecution := ordersworkflows.NewInlineOrderWorkflows(orderService)

	tokenManager := usersapp.NewTokenManager([]byte("pact-secret"), 15*time.Minute, 24*time.Hour)
	userService := usersapp.NewService(usersmemory.NewRepository(), usersmemory.NewTokenStore(), tokenManager)

	statisticsService := statsapp.NewService(
		statssources.NewOrderSource(ordersRepo),
		statssources.NewCatalogSource(catalogService),
	)

	handlers := httpapi.ApiHandleFunctions{
		UsersAPI:      httpapi.NewUsersAPI(userService),
		CatalogAPI:    httpapi.NewCatalogAPI(catalogService),
		OrdersAPI:     httpapi.NewOrdersAPI(orderService, orderExecution),
		StatisticsAPI: httpapi.NewStatisticsAPI(statisticsService),
	}
	router := httpapi.NewRouter(handlers, httpapi.RequireAuth(userService))

	a.mu.Lock()
	a.router = router
	a.mu.Unlock()
}

func seedContractCatalog(t testing.TB, catalog *catalogapp.Service) {
	t.Helper()
	ctx := context.Background()

	_, err := catalog.AddCategory(ctx, "electronics")
	require.NoError(t, err)
	_, err = catalog.AddProduct(ctx, pacttest.ExistingProductName, 10, 39.9, "electronics")
	require.NoError(t, err)
	_, err = catalog.AddProduct(ctx, "mouse", 25, 12.5, "electronics")
	require.NoError(t, err)
}
