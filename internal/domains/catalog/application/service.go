package application

import (
	"context"

	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/ports"
)

// Service orchestrates the catalog bounded context use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the catalog service with its repository.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// AddProduct creates a product under an existing category.
func (s *Service) AddProduct(ctx context.Context, name string, quantity int64, price float64, categoryName string) (*domain.Product, error) {
	category, err := s.repo.GetCategoryByName(ctx, categoryName)
	if err != nil {
		return nil, mapError(err)
	}
	product, err := domain.NewProduct(0, name, quantity, price, category.ID)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveProduct(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetProductInfo resolves a product by name together with its category name.
func (s *Service) GetProductInfo(ctx context.Context, name string) (*ports.ProductInfo, error) {
	product, err := s.repo.GetProductByName(ctx, name)
	if err != nil {
		return nil, mapError(err)
	}
	category, err := s.repo.GetCategoryByID(ctx, product.CategoryID)
	if err != nil {
		return nil, mapError(err)
	}
	return &ports.ProductInfo{
		ID:       product.ID,
		Name:     product.Name,
		Quantity: product.Quantity,
		Price:    product.Price,
		Category: category.Name,
	}, nil
}

// UpdateProduct applies the present fields of the update. Nil fields are
// left unchanged, so an explicit zero quantity is distinguishable from
// "not provided".
func (s *Service) UpdateProduct(ctx context.Context, id int64, update ports.ProductUpdate) (*domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if update.Name != nil {
		if err := product.Rename(*update.Name); err != nil {
			return nil, mapError(err)
		}
	}
	if update.Quantity != nil {
		if err := product.SetQuantity(*update.Quantity); err != nil {
			return nil, mapError(err)
		}
	}
	if update.Price != nil {
		if err := product.SetPrice(*update.Price); err != nil {
			return nil, mapError(err)
		}
	}
	if update.CategoryID != nil {
		if _, err := s.repo.GetCategoryByID(ctx, *update.CategoryID); err != nil {
			return nil, mapError(err)
		}
		product.CategoryID = *update.CategoryID
	}
	saved, err := s.repo.SaveProduct(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// RemoveProduct deletes a product from the catalog.
func (s *Service) RemoveProduct(ctx context.Context, id int64) error {
	return mapError(s.repo.DeleteProduct(ctx, id))
}

// AddCategory creates a category.
func (s *Service) AddCategory(ctx context.Context, name string) (*domain.Category, error) {
	category, err := domain.NewCategory(0, name)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveCategory(ctx, category)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// ListCategories returns every category.
func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}

// DeleteCategory removes a category and, through the schema cascade, its products.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return mapError(s.repo.DeleteCategory(ctx, id))
}

// GetProductsByIDs loads a batch of products for callers that need price or name snapshots.
func (s *Service) GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

// DeductStock delegates the atomic clamped decrement to the repository.
func (s *Service) DeductStock(ctx context.Context, deductions []ports.StockDeduction) ([]ports.DeductedLine, error) {
	lines, err := s.repo.DeductStock(ctx, deductions)
	if err != nil {
		return nil, mapError(err)
	}
	return lines, nil
}

var _ ports.Service = (*Service)(nil)
