package sources

import (
	"context"

	catalogports "github.com/itay19101973/E-commerce-system/internal/domains/catalog/ports"
	ordersports "github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
	"github.com/itay19101973/E-commerce-system/internal/domains/statistics/ports"
)

var (
	_ ports.OrderSource   = (*OrderSource)(nil)
	_ ports.CatalogSource = (*CatalogSource)(nil)
)

// OrderSource feeds the aggregator from the order repository's executed
// view.
type OrderSource struct {
	repo ordersports.Repository
}

// NewOrderSource wraps the order repository for statistics reads.
func NewOrderSource(repo ordersports.Repository) *OrderSource {
	return &OrderSource{repo: repo}
}

func (s *OrderSource) ListExecutedOrders(ctx context.Context) ([]ports.ExecutedOrder, error) {
	orders, err := s.repo.ListExecuted(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]ports.ExecutedOrder, 0, len(orders))
	for _, order := range orders {
		executed := ports.ExecutedOrder{ID: order.ID}
		for _, item := range order.Items {
			executed.Items = append(executed.Items, ports.SoldItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		result = append(result, executed)
	}
	return result, nil
}

// CatalogSource resolves product and category identities through the
// catalog service.
type CatalogSource struct {
	catalog catalogports.Service
}

// NewCatalogSource wraps the catalog service for statistics reads.
func NewCatalogSource(catalog catalogports.Service) *CatalogSource {
	return &CatalogSource{catalog: catalog}
}

func (s *CatalogSource) ProductsByIDs(ctx context.Context, ids []int64) (map[int64]ports.ProductRef, error) {
	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make(map[int64]ports.ProductRef, len(products))
	for id, product := range products {
		result[id] = ports.ProductRef{ID: product.ID, Name: product.Name, CategoryID: product.CategoryID}
	}
	return result, nil
}

func (s *CatalogSource) Categories(ctx context.Context) (map[int64]ports.CategoryRef, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[int64]ports.CategoryRef, len(categories))
	for _, category := range categories {
		result[category.ID] = ports.CategoryRef{ID: category.ID, Name: category.Name}
	}
	return result, nil
}
