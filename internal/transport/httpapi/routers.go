package httpapi

import (
	"github.com/gin-gonic/gin"
)

// ApiHandleFunctions bundles the per-context HTTP handler groups.
type ApiHandleFunctions struct {
	UsersAPI      UsersAPI
	CatalogAPI    CatalogAPI
	OrdersAPI     OrdersAPI
	StatisticsAPI StatisticsAPI
}

// Route binds one handler to a method and path.
type Route struct {
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
	// Protected routes require a valid bearer access token.
	Protected bool
}

// NewRouter returns a gin engine with all routes registered. The auth
// middleware is applied to protected routes only; unauthenticated surfaces
// (registration, catalog reads, statistics) skip it.
func NewRouter(handlers ApiHandleFunctions, auth gin.HandlerFunc) *gin.Engine {
	router := gin.Default()
	for _, route := range getRoutes(handlers) {
		chain := []gin.HandlerFunc{}
		if route.Protected && auth != nil {
			chain = append(chain, auth)
		}
		chain = append(chain, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, chain...)
	}
	return router
}

func getRoutes(handlers ApiHandleFunctions) []Route {
	return []Route{
		{Method: "POST", Pattern: "/users", HandlerFunc: handlers.UsersAPI.Register},
		{Method: "POST", Pattern: "/users/login", HandlerFunc: handlers.UsersAPI.Login},
		{Method: "POST", Pattern: "/users/refresh", HandlerFunc: handlers.UsersAPI.Refresh},
		{Method: "POST", Pattern: "/users/logout", HandlerFunc: handlers.UsersAPI.Logout},

		{Method: "GET", Pattern: "/products", HandlerFunc: handlers.CatalogAPI.GetProductInfo},
		{Method: "GET", Pattern: "/categories", HandlerFunc: handlers.CatalogAPI.ListCategories},

		{Method: "POST", Pattern: "/orders/", HandlerFunc: handlers.OrdersAPI.CreateOrder, Protected: true},
		{Method: "GET", Pattern: "/orders/", HandlerFunc: handlers.OrdersAPI.GetOrders, Protected: true},
		{Method: "POST", Pattern: "/orders/execute", HandlerFunc: handlers.OrdersAPI.ExecuteOrder, Protected: true},
		{Method: "POST", Pattern: "/orders/update", HandlerFunc: handlers.OrdersAPI.UpdateOrder, Protected: true},
		{Method: "DELETE", Pattern: "/orders/delete", HandlerFunc: handlers.OrdersAPI.DeleteOrder, Protected: true},

		{Method: "GET", Pattern: "/statistics/profit", HandlerFunc: handlers.StatisticsAPI.TotalSales},
		{Method: "GET", Pattern: "/statistics/product-sales", HandlerFunc: handlers.StatisticsAPI.ProductSales},
		{Method: "GET", Pattern: "/statistics/category-product-sales", HandlerFunc: handlers.StatisticsAPI.CategoryProductSales},
	}
}
