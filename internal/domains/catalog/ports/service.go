package ports

import (
	"context"

	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/domain"
)

// ProductUpdate carries optional product mutations. A nil field means
// "leave unchanged"; zero values are legitimate explicit updates.
type ProductUpdate struct {
	Name       *string
	Quantity   *int64
	Price      *float64
	CategoryID *int64
}

// ProductInfo is the read model returned to transport adapters.
type ProductInfo struct {
	ID       int64
	Name     string
	Quantity int64
	Price    float64
	Category string
}

// Service exposes catalog use cases to adapters.
type Service interface {
	AddProduct(ctx context.Context, name string, quantity int64, price float64, categoryName string) (*domain.Product, error)
	GetProductInfo(ctx context.Context, name string) (*ProductInfo, error)
	UpdateProduct(ctx context.Context, id int64, update ProductUpdate) (*domain.Product, error)
	RemoveProduct(ctx context.Context, id int64) error

	AddCategory(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	DeductStock(ctx context.Context, deductions []StockDeduction) ([]DeductedLine, error)
}
