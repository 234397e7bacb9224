package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

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
)

// testApp is the full API wired over in-memory adapters.
type testApp struct {
	router  *gin.Engine
	catalog *catalogapp.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogService := catalogapp.NewService(catalogmemory.NewRepository())

	ordersRepo := ordersmemory.NewRepository()
	orderService := ordersapp.NewService(ordersRepo, orderscatalog.NewAdapter(catalogService))
	orderExecution := ordersworkflows.NewInlineOrderWorkflows(orderService)

	tokenManager := usersapp.NewTokenManager([]byte("test-secret"), 15*time.Minute, 24*time.Hour)
	userService := usersapp.NewService(usersmemory.NewRepository(), usersmemory.NewTokenStore(), tokenManager)

	statisticsService := statsapp.NewService(
		statssources.NewOrderSource(ordersRepo),
		statssources.NewCatalogSource(catalogService),
	)

	handlers := ApiHandleFunctions{
		UsersAPI:      NewUsersAPI(userService),
		CatalogAPI:    NewCatalogAPI(catalogService),
		OrdersAPI:     NewOrdersAPI(orderService, orderExecution),
		StatisticsAPI: NewStatisticsAPI(statisticsService),
	}
	return &testApp{
		router:  NewRouter(handlers, RequireAuth(userService)),
		catalog: catalogService,
	}
}

func (a *testApp) seedCatalog(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := a.catalog.AddCategory(ctx, "electronics")
	require.NoError(t, err)
	_, err = a.catalog.AddProduct(ctx, "keyboard", 10, 5, "electronics")
	require.NoError(t, err)
	_, err = a.catalog.AddProduct(ctx, "mouse", 25, 12.5, "electronics")
	require.NoError(t, err)
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	a.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// registerAndLogin creates an account and returns its access token.
func (a *testApp) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	recorder := a.do(t, http.MethodPost, "/users", "", gin.H{
		"email":     email,
		"full_name": "Test Shopper",
		"password":  "s3cret1",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = a.do(t, http.MethodPost, "/users/login", "", gin.H{
		"email":    email,
		"password": "s3cret1",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	return decodeBody(t, recorder)["access_token"].(string)
}

func TestRegisterStatusCodes(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(t, http.MethodPost, "/users", "", gin.H{
		"email":     "alice@example.com",
		"full_name": "Alice Doe",
		"password":  "s3cret1",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	body := decodeBody(t, recorder)
	require.Equal(t, "alice@example.com", body["email"])
	require.NotZero(t, body["id"])

	// Missing fields and duplicate registration are both client errors.
	recorder = app.do(t, http.MethodPost, "/users", "", gin.H{"email": "bob@example.com"})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = app.do(t, http.MethodPost, "/users", "", gin.H{
		"email":     "alice@example.com",
		"full_name": "Alice Again",
		"password":  "s3cret1",
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLoginAndRefreshStatusCodes(t *testing.T) {
	app := newTestApp(t)
	app.registerAndLogin(t, "alice@example.com")

	recorder := app.do(t, http.MethodPost, "/users/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = app.do(t, http.MethodPost, "/users/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "s3cret1",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	refresh := decodeBody(t, recorder)["refresh_token"].(string)

	recorder = app.do(t, http.MethodPost, "/users/refresh", refresh, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotEmpty(t, decodeBody(t, recorder)["access_token"])

	recorder = app.do(t, http.MethodPost, "/users/logout", refresh, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	// The revoked refresh token is rejected from here on.
	recorder = app.do(t, http.MethodPost, "/users/refresh", refresh, nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestProductLookupStatusCodes(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)

	recorder := app.do(t, http.MethodGet, "/products?name=keyboard", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	require.Equal(t, "keyboard", body["name"])
	require.Equal(t, "electronics", body["category"])

	recorder = app.do(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = app.do(t, http.MethodGet, "/products?name=ghost", "", nil)
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder = app.do(t, http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestOrdersRequireAuthentication(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)

	recorder := app.do(t, http.MethodGet, "/orders/", "", nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = app.do(t, http.MethodPost, "/orders/", "garbage-token", gin.H{
		"items": []gin.H{{"product_id": 1, "quantity": 1}},
	})
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)
	token := app.registerAndLogin(t, "alice@example.com")

	// Create: product 1 is the keyboard at price 5.
	recorder := app.do(t, http.MethodPost, "/orders/", token, gin.H{
		"items": []gin.H{{"product_id": 1, "quantity": 7}},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	orderID := int64(decodeBody(t, recorder)["id"].(float64))

	// List shows the pending order with snapshotted price.
	recorder = app.do(t, http.MethodGet, "/orders/", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	list := decodeBody(t, recorder)
	orders := list["orders"].([]any)
	require.Len(t, orders, 1)
	item := orders[0].(map[string]any)["items"].([]any)[0].(map[string]any)
	require.Equal(t, float64(5), item["unit_price"])

	// Execute deducts stock and totals from deducted quantities.
	recorder = app.do(t, http.MethodPost, "/orders/execute", token, gin.H{"id": orderID})
	require.Equal(t, http.StatusOK, recorder.Code)
	details := decodeBody(t, recorder)["details"].(map[string]any)
	require.Equal(t, float64(35), details["total_price"])

	// Re-execution and post-execution update are client errors.
	recorder = app.do(t, http.MethodPost, "/orders/execute", token, gin.H{"id": orderID})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = app.do(t, http.MethodPost, "/orders/update", token, gin.H{
		"id":    orderID,
		"items": []gin.H{{"product_id": 2, "quantity": 1}},
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	// Executed orders may still be deleted.
	recorder = app.do(t, http.MethodDelete, "/orders/delete", token, gin.H{"id": orderID})
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestExecuteOrderMalformedBody(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)
	token := app.registerAndLogin(t, "alice@example.com")

	recorder := app.do(t, http.MethodPost, "/orders/execute", token, gin.H{})
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestOrdersDoNotLeakAcrossUsers(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)
	aliceToken := app.registerAndLogin(t, "alice@example.com")
	bobToken := app.registerAndLogin(t, "bob@example.com")

	recorder := app.do(t, http.MethodPost, "/orders/", aliceToken, gin.H{
		"items": []gin.H{{"product_id": 1, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	orderID := int64(decodeBody(t, recorder)["id"].(float64))

	// Bob cannot execute, update, or delete Alice's order; the status does
	// not reveal whether the order exists.
	for _, attempt := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/orders/execute", gin.H{"id": orderID}},
		{http.MethodPost, "/orders/update", gin.H{"id": orderID, "items": []gin.H{{"product_id": 2, "quantity": 1}}}},
		{http.MethodDelete, "/orders/delete", gin.H{"id": orderID}},
	} {
		recorder := app.do(t, attempt.method, attempt.path, bobToken, attempt.body)
		require.Equal(t, http.StatusBadRequest, recorder.Code, fmt.Sprintf("%s %s", attempt.method, attempt.path))
	}

	recorder = app.do(t, http.MethodGet, "/orders/", bobToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Empty(t, decodeBody(t, recorder)["orders"])
}

func TestStatisticsEndpoints(t *testing.T) {
	app := newTestApp(t)
	app.seedCatalog(t)
	token := app.registerAndLogin(t, "alice@example.com")

	// One executed order: 2 keyboards at 5, 2 mice at 12.5.
	recorder := app.do(t, http.MethodPost, "/orders/", token, gin.H{
		"items": []gin.H{
			{"product_id": 1, "quantity": 2},
			{"product_id": 2, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	orderID := int64(decodeBody(t, recorder)["id"].(float64))
	recorder = app.do(t, http.MethodPost, "/orders/execute", token, gin.H{"id": orderID})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = app.do(t, http.MethodGet, "/statistics/profit", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	profit := decodeBody(t, recorder)
	require.Equal(t, float64(1), profit["number_of_executed_orders"])
	require.Equal(t, float64(35), profit["total_profit"])

	recorder = app.do(t, http.MethodGet, "/statistics/product-sales", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var productSales []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &productSales))
	require.Len(t, productSales, 2)
	require.Equal(t, float64(50), productSales[0]["sales_percentage"])

	recorder = app.do(t, http.MethodGet, "/statistics/category-product-sales", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
}
