package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog persistence adapter used for tests
// and as a fallback when no database is configured.
type Repository struct {
	mu             sync.RWMutex
	products       map[int64]*domain.Product
	categories     map[int64]*domain.Category
	nextProductID  int64
	nextCategoryID int64
}

func NewRepository() *Repository {
	return &Repository{
		products:   map[int64]*domain.Product{},
		categories: map[int64]*domain.Category{},
	}
}

func (r *Repository) SaveProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.products {
		if existing.Name == product.Name && id != product.ID {
			return nil, ports.ErrDuplicateProduct
		}
	}
	if _, ok := r.categories[product.CategoryID]; !ok {
		return nil, ports.ErrCategoryNotFound
	}
	clone := *product
	now := time.Now().UTC()
	if clone.ID == 0 {
		r.nextProductID++
		clone.ID = r.nextProductID
		clone.CreatedAt = now
	} else if clone.ID > r.nextProductID {
		r.nextProductID = clone.ID
	}
	clone.UpdatedAt = now
	r.products[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) GetProductByName(_ context.Context, name string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, product := range r.products {
		if product.Name == name {
			clone := *product
			return &clone, nil
		}
	}
	return nil, ports.ErrProductNotFound
}

func (r *Repository) GetProductsByIDs(_ context.Context, ids []int64) (map[int64]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[int64]*domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			clone := *product
			result[id] = &clone
		}
	}
	return result, nil
}

func (r *Repository) ListProducts(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		clone := *product
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) DeleteProduct(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *Repository) SaveCategory(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.categories {
		if existing.Name == category.Name && id != category.ID {
			return nil, ports.ErrDuplicateCategory
		}
	}
	clone := *category
	if clone.ID == 0 {
		r.nextCategoryID++
		clone.ID = r.nextCategoryID
	} else if clone.ID > r.nextCategoryID {
		r.nextCategoryID = clone.ID
	}
	r.categories[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) GetCategoryByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, ports.ErrCategoryNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *Repository) GetCategoryByName(_ context.Context, name string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, category := range r.categories {
		if category.Name == name {
			clone := *category
			return &clone, nil
		}
	}
	return nil, ports.ErrCategoryNotFound
}

func (r *Repository) ListCategories(_ context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		clone := *category
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) DeleteCategory(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return ports.ErrCategoryNotFound
	}
	delete(r.categories, id)
	for productID, product := range r.products {
		if product.CategoryID == id {
			delete(r.products, productID)
		}
	}
	return nil
}

// DeductStock clamps each deduction at the available quantity under a single
// lock, mirroring the transactional behavior of the postgres adapter.
func (r *Repository) DeductStock(_ context.Context, deductions []ports.StockDeduction) ([]ports.DeductedLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	targets := make([]*domain.Product, 0, len(deductions))
	for _, d := range deductions {
		product, ok := r.products[d.ProductID]
		if !ok {
			return nil, ports.ErrProductNotFound
		}
		targets = append(targets, product)
	}
	lines := make([]ports.DeductedLine, 0, len(deductions))
	for i, d := range deductions {
		product := targets[i]
		deducted := product.Deduct(d.Requested)
		lines = append(lines, ports.DeductedLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   d.Requested,
			Deducted:    deducted,
		})
	}
	return lines, nil
}
