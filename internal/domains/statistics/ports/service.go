package ports

import "context"

// SalesSummary reports the revenue of all executed orders.
type SalesSummary struct {
	ExecutedOrders int64
	TotalSales     float64
}

// ProductSales is a product's share of all units sold across executed
// orders.
type ProductSales struct {
	ProductID         int64
	ProductName       string
	TotalQuantitySold int64
	SalesPercentage   float64
}

// ProductSalesInCategory is a product's share of the units sold within its
// own category.
type ProductSalesInCategory struct {
	ProductID       int64
	ProductName     string
	QuantitySold    int64
	SalesPercentage float64
}

// CategorySales groups product sales by category with per-product shares
// relative to the category's total.
type CategorySales struct {
	CategoryID    int64
	CategoryName  string
	TotalQuantity int64
	Products      []ProductSalesInCategory
}

// Service exposes the read-only sales aggregations.
type Service interface {
	// TotalSales sums unit_price * quantity over every executed order.
	TotalSales(ctx context.Context) (*SalesSummary, error)
	// ProductSalesPercentages reports each sold product's share of all
	// units sold. Percentages are rounded to 2 decimals; with no sales the
	// result is empty rather than a division by zero.
	ProductSalesPercentages(ctx context.Context) ([]ProductSales, error)
	// CategoryProductSales reports the same shares computed within each
	// product's category.
	CategoryProductSales(ctx context.Context) ([]CategorySales, error)
}
