package ports

import (
	"context"
	"errors"

	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/domain"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateProduct  = errors.New("product name already exists")
	ErrDuplicateCategory = errors.New("category name already exists")
	// ErrProductInUse is returned when a delete would orphan order items
	// that still reference the product.
	ErrProductInUse = errors.New("product is referenced by orders")
)

// StockDeduction requests up to Requested units of a product to be removed from stock.
type StockDeduction struct {
	ProductID int64
	Requested int64
}

// DeductedLine reports the outcome of one stock deduction.
type DeductedLine struct {
	ProductID   int64
	ProductName string
	Requested   int64
	Deducted    int64
}

// Repository persists the product catalog and its stock counters.
type Repository interface {
	SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	GetProductByName(ctx context.Context, name string) (*domain.Product, error)
	// GetProductsByIDs loads a batch of products keyed by id; missing ids are absent from the map.
	GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	SaveCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	// DeleteCategory removes a category and cascades to its products.
	DeleteCategory(ctx context.Context, id int64) error

	// DeductStock atomically removes stock for every requested product,
	// clamping each deduction at the available quantity. Concurrent calls
	// touching the same product are serialized per row; a product's stock
	// never goes negative. The whole batch commits or rolls back together.
	DeductStock(ctx context.Context, deductions []StockDeduction) ([]DeductedLine, error)
}
