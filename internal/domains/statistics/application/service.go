package application

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/itay19101973/E-commerce-system/internal/domains/statistics/ports"
)

// Service derives sales aggregations from executed orders. Everything is
// recomputed on read; the service holds no state of its own.
type Service struct {
	orders  ports.OrderSource
	catalog ports.CatalogSource
}

// NewService wires the aggregator with its read sources.
func NewService(orders ports.OrderSource, catalog ports.CatalogSource) *Service {
	return &Service{orders: orders, catalog: catalog}
}

// TotalSales sums unit_price * quantity over all executed orders.
func (s *Service) TotalSales(ctx context.Context) (*ports.SalesSummary, error) {
	orders, err := s.orders.ListExecutedOrders(ctx)
	if err != nil {
		return nil, err
	}
	summary := &ports.SalesSummary{ExecutedOrders: int64(len(orders))}
	for _, order := range orders {
		for _, item := range order.Items {
			summary.TotalSales += item.UnitPrice * float64(item.Quantity)
		}
	}
	return summary, nil
}

// ProductSalesPercentages reports each sold product's share of all units
// sold across executed orders.
func (s *Service) ProductSalesPercentages(ctx context.Context) ([]ports.ProductSales, error) {
	orders, err := s.orders.ListExecutedOrders(ctx)
	if err != nil {
		return nil, err
	}
	quantities := make(map[int64]int64)
	var grandTotal int64
	for _, order := range orders {
		for _, item := range order.Items {
			quantities[item.ProductID] += item.Quantity
			grandTotal += item.Quantity
		}
	}
	products, err := s.resolveProducts(ctx, quantities)
	if err != nil {
		return nil, err
	}

	results := make([]ports.ProductSales, 0, len(quantities))
	for productID, quantity := range quantities {
		product := products[productID]
		results = append(results, ports.ProductSales{
			ProductID:         productID,
			ProductName:       product.Name,
			TotalQuantitySold: quantity,
			SalesPercentage:   percentage(quantity, grandTotal),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ProductID < results[j].ProductID })
	return results, nil
}

// CategoryProductSales reports product shares computed within each
// product's own category.
func (s *Service) CategoryProductSales(ctx context.Context) ([]ports.CategorySales, error) {
	orders, err := s.orders.ListExecutedOrders(ctx)
	if err != nil {
		return nil, err
	}
	quantities := make(map[int64]int64)
	for _, order := range orders {
		for _, item := range order.Items {
			quantities[item.ProductID] += item.Quantity
		}
	}
	products, err := s.resolveProducts(ctx, quantities)
	if err != nil {
		return nil, err
	}
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64]map[int64]int64)
	for productID, quantity := range quantities {
		product := products[productID]
		if byCategory[product.CategoryID] == nil {
			byCategory[product.CategoryID] = make(map[int64]int64)
		}
		byCategory[product.CategoryID][productID] += quantity
	}

	results := make([]ports.CategorySales, 0, len(byCategory))
	for categoryID, productQuantities := range byCategory {
		category, ok := categories[categoryID]
		if !ok {
			return nil, fmt.Errorf("sold products reference missing category %d", categoryID)
		}
		var categoryTotal int64
		for _, quantity := range productQuantities {
			categoryTotal += quantity
		}
		entry := ports.CategorySales{
			CategoryID:    categoryID,
			CategoryName:  category.Name,
			TotalQuantity: categoryTotal,
		}
		for productID, quantity := range productQuantities {
			entry.Products = append(entry.Products, ports.ProductSalesInCategory{
				ProductID:       productID,
				ProductName:     products[productID].Name,
				QuantitySold:    quantity,
				SalesPercentage: percentage(quantity, categoryTotal),
			})
		}
		sort.Slice(entry.Products, func(i, j int) bool { return entry.Products[i].ProductID < entry.Products[j].ProductID })
		results = append(results, entry)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CategoryID < results[j].CategoryID })
	return results, nil
}

func (s *Service) resolveProducts(ctx context.Context, quantities map[int64]int64) (map[int64]ports.ProductRef, error) {
	ids := make([]int64, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	products, err := s.catalog.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve sold products: %w", err)
	}
	// A sold product that no longer resolves is a data-integrity fault;
	// reporting it beats emitting nameless zero-value rows.
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, fmt.Errorf("executed orders reference missing product %d", id)
		}
	}
	return products, nil
}

// percentage returns part/total*100 rounded to 2 decimals, and 0 when the
// total is zero.
func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}

var _ ports.Service = (*Service)(nil)
