package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itay19101973/E-commerce-system/internal/domains/statistics/ports"
)

type fakeOrderSource struct {
	orders []ports.ExecutedOrder
}

func (s *fakeOrderSource) ListExecutedOrders(context.Context) ([]ports.ExecutedOrder, error) {
	return s.orders, nil
}

type fakeCatalogSource struct {
	products   map[int64]ports.ProductRef
	categories map[int64]ports.CategoryRef
}

func (s *fakeCatalogSource) ProductsByIDs(_ context.Context, ids []int64) (map[int64]ports.ProductRef, error) {
	result := make(map[int64]ports.ProductRef, len(ids))
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			result[id] = product
		}
	}
	return result, nil
}

func (s *fakeCatalogSource) Categories(context.Context) (map[int64]ports.CategoryRef, error) {
	return s.categories, nil
}

func newStatisticsFixture(orders []ports.ExecutedOrder) *Service {
	catalog := &fakeCatalogSource{
		products: map[int64]ports.ProductRef{
			1: {ID: 1, Name: "keyboard", CategoryID: 10},
			2: {ID: 2, Name: "mouse", CategoryID: 10},
			3: {ID: 3, Name: "mug", CategoryID: 20},
		},
		categories: map[int64]ports.CategoryRef{
			10: {ID: 10, Name: "electronics"},
			20: {ID: 20, Name: "kitchen"},
		},
	}
	return NewService(&fakeOrderSource{orders: orders}, catalog)
}

func TestTotalSales(t *testing.T) {
	service := newStatisticsFixture([]ports.ExecutedOrder{
		{ID: 1, Items: []ports.SoldItem{
			{ProductID: 1, Quantity: 2, UnitPrice: 40},
			{ProductID: 3, Quantity: 1, UnitPrice: 7},
		}},
		{ID: 2, Items: []ports.SoldItem{
			{ProductID: 2, Quantity: 4, UnitPrice: 12.5},
		}},
	})

	summary, err := service.TotalSales(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), summary.ExecutedOrders)
	require.InDelta(t, 137, summary.TotalSales, 1e-9)
}

func TestTotalSalesEmpty(t *testing.T) {
	service := newStatisticsFixture(nil)

	summary, err := service.TotalSales(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(0), summary.ExecutedOrders)
	require.Equal(t, float64(0), summary.TotalSales)
}

func TestProductSalesPercentages(t *testing.T) {
	service := newStatisticsFixture([]ports.ExecutedOrder{
		{ID: 1, Items: []ports.SoldItem{
			{ProductID: 1, Quantity: 1, UnitPrice: 40},
			{ProductID: 2, Quantity: 1, UnitPrice: 12.5},
		}},
		{ID: 2, Items: []ports.SoldItem{
			{ProductID: 1, Quantity: 1, UnitPrice: 40},
		}},
	})

	results, err := service.ProductSalesPercentages(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Shares are quantity based, sorted by product id.
	require.Equal(t, int64(1), results[0].ProductID)
	require.Equal(t, "keyboard", results[0].ProductName)
	require.Equal(t, int64(2), results[0].TotalQuantitySold)
	require.InDelta(t, 66.67, results[0].SalesPercentage, 1e-9)

	require.Equal(t, int64(2), results[1].ProductID)
	require.Equal(t, int64(1), results[1].TotalQuantitySold)
	require.InDelta(t, 33.33, results[1].SalesPercentage, 1e-9)
}

func TestProductSalesPercentagesReportOrphanedProduct(t *testing.T) {
	// Product 99 was sold but no longer resolves in the catalog. The
	// aggregation must surface the integrity fault, not emit a nameless row.
	service := newStatisticsFixture([]ports.ExecutedOrder{
		{ID: 1, Items: []ports.SoldItem{
			{ProductID: 1, Quantity: 1, UnitPrice: 40},
			{ProductID: 99, Quantity: 2, UnitPrice: 3},
		}},
	})

	_, err := service.ProductSalesPercentages(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing product 99")

	_, err = service.CategoryProductSales(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing product 99")
}

func TestProductSalesPercentagesNoExecutedOrders(t *testing.T) {
	service := newStatisticsFixture(nil)

	results, err := service.ProductSalesPercentages(context.Background())
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestCategoryProductSales(t *testing.T) {
	service := newStatisticsFixture([]ports.ExecutedOrder{
		{ID: 1, Items: []ports.SoldItem{
			{ProductID: 1, Quantity: 3, UnitPrice: 40},
			{ProductID: 2, Quantity: 1, UnitPrice: 12.5},
			{ProductID: 3, Quantity: 5, UnitPrice: 7},
		}},
	})

	results, err := service.CategoryProductSales(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	electronics := results[0]
	require.Equal(t, int64(10), electronics.CategoryID)
	require.Equal(t, "electronics", electronics.CategoryName)
	require.Equal(t, int64(4), electronics.TotalQuantity)
	require.Len(t, electronics.Products, 2)
	require.InDelta(t, 75, electronics.Products[0].SalesPercentage, 1e-9)
	require.InDelta(t, 25, electronics.Products[1].SalesPercentage, 1e-9)

	kitchen := results[1]
	require.Equal(t, "kitchen", kitchen.CategoryName)
	require.Equal(t, int64(5), kitchen.TotalQuantity)
	require.Len(t, kitchen.Products, 1)
	require.InDelta(t, 100, kitchen.Products[0].SalesPercentage, 1e-9)
}
