package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	statsports "github.com/itay19101973/E-commerce-system/internal/domains/statistics/ports"
)

// StatisticsAPI wires HTTP transport with the sales aggregator.
type StatisticsAPI struct {
	service statsports.Service
}

// NewStatisticsAPI creates a StatisticsAPI backed by the provided service.
func NewStatisticsAPI(service statsports.Service) StatisticsAPI {
	return StatisticsAPI{service: service}
}

type productSalesResponse struct {
	ProductID         int64   `json:"product_id"`
	ProductName       string  `json:"product_name"`
	TotalQuantitySold int64   `json:"total_quantity_sold"`
	SalesPercentage   float64 `json:"sales_percentage"`
}

type productSalesInCategoryResponse struct {
	ProductID       int64   `json:"product_id"`
	ProductName     string  `json:"product_name"`
	QuantitySold    int64   `json:"quantity_sold"`
	SalesPercentage float64 `json:"sales_percentage_within_category"`
}

type categorySalesResponse struct {
	CategoryID    int64                            `json:"category_id"`
	CategoryName  string                           `json:"category_name"`
	TotalQuantity int64                            `json:"total_category_quantity"`
	Products      []productSalesInCategoryResponse `json:"products"`
}

// Get /statistics/profit
// Total revenue of executed orders
func (api *StatisticsAPI) TotalSales(c *gin.Context) {
	summary, err := api.service.TotalSales(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"number_of_executed_orders": summary.ExecutedOrders,
		"total_profit":              summary.TotalSales,
	})
}

// Get /statistics/product-sales
// Each product's share of all units sold
func (api *StatisticsAPI) ProductSales(c *gin.Context) {
	sales, err := api.service.ProductSalesPercentages(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	response := make([]productSalesResponse, 0, len(sales))
	for _, entry := range sales {
		response = append(response, productSalesResponse{
			ProductID:         entry.ProductID,
			ProductName:       entry.ProductName,
			TotalQuantitySold: entry.TotalQuantitySold,
			SalesPercentage:   entry.SalesPercentage,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Get /statistics/category-product-sales
// Product shares within each category
func (api *StatisticsAPI) CategoryProductSales(c *gin.Context) {
	sales, err := api.service.CategoryProductSales(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	response := make([]categorySalesResponse, 0, len(sales))
	for _, category := range sales {
		entry := categorySalesResponse{
			CategoryID:    category.CategoryID,
			CategoryName:  category.CategoryName,
			TotalQuantity: category.TotalQuantity,
			Products:      make([]productSalesInCategoryResponse, 0, len(category.Products)),
		}
		for _, product := range category.Products {
			entry.Products = append(entry.Products, productSalesInCategoryResponse{
				ProductID:       product.ProductID,
				ProductName:     product.ProductName,
				QuantitySold:    product.QuantitySold,
				SalesPercentage: product.SalesPercentage,
			})
		}
		response = append(response, entry)
	}
	c.JSON(http.StatusOK, response)
}
