package postgres

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the product catalog in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog repository. The schema is
// owned by internal/platform/migrations; the caller manages the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	Name       string    `gorm:"column:name;uniqueIndex"`
	Quantity   int64     `gorm:"column:quantity"`
	Price      float64   `gorm:"column:price"`
	CategoryID int64     `gorm:"column:category_id;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type categoryRecord struct {
	ID   int64  `gorm:"primaryKey;column:id"`
	Name string `gorm:"column:name;uniqueIndex"`
}

func (categoryRecord) TableName() string { return "categories" }

// SaveProduct inserts or updates a product row.
func (r *Repository) SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toProductRecord(product)
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateProduct
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetProductByID fetches a product by identifier.
func (r *Repository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetProductByName fetches a product by its unique name.
func (r *Repository) GetProductByName(ctx context.Context, name string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetProductsByIDs loads a batch of products keyed by id.
func (r *Repository) GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Find(&records, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	result := make(map[int64]*domain.Product, len(records))
	for i := range records {
		result[records[i].ID] = records[i].toDomain()
	}
	return result, nil
}

// ListProducts returns every product.
func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// DeleteProduct removes a product by identifier.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return ports.ErrProductInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

// SaveCategory inserts or updates a category row.
func (r *Repository) SaveCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category is nil")
	}
	record := categoryRecord{ID: category.ID, Name: category.Name}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateCategory
		}
		return nil, err
	}
	return &domain.Category{ID: record.ID, Name: record.Name}, nil
}

// GetCategoryByID fetches a category by identifier.
func (r *Repository) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record categoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, err
	}
	return &domain.Category{ID: record.ID, Name: record.Name}, nil
}

// GetCategoryByName fetches a category by its unique name.
func (r *Repository) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record categoryRecord
	if err := r.db.WithContext(ctx).First(&record, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, err
	}
	return &domain.Category{ID: record.ID, Name: record.Name}, nil
}

// ListCategories returns every category.
func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(records))
	for _, record := range records {
		categories = append(categories, &domain.Category{ID: record.ID, Name: record.Name})
	}
	return categories, nil
}

// DeleteCategory removes a category; the ON DELETE CASCADE constraint
// removes its products.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&categoryRecord{}, id)
	if result.Error != nil {
		// The cascade to products is blocked while order items still
		// reference any of them.
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return ports.ErrProductInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

// DeductStock removes stock for every requested product inside one
// transaction. Each product row is locked with SELECT ... FOR UPDATE so
// concurrent executions serialize per row, and the deduction is clamped at
// the available quantity so stock never goes negative.
func (r *Repository) DeductStock(ctx context.Context, deductions []ports.StockDeduction) ([]ports.DeductedLine, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	// Lock rows in id order so concurrent batches cannot deadlock.
	ordered := make([]ports.StockDeduction, len(deductions))
	copy(ordered, deductions)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })

	byProduct := make(map[int64]ports.DeductedLine, len(ordered))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range ordered {
			var record productRecord
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&record, "id = ?", d.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ports.ErrProductNotFound
				}
				return err
			}
			deducted := d.Requested
			if record.Quantity < deducted {
				deducted = record.Quantity
			}
			if deducted > 0 {
				if err := tx.Model(&productRecord{}).
					Where("id = ?", record.ID).
					Updates(map[string]any{
						"quantity":   gorm.Expr("quantity - ?", deducted),
						"updated_at": time.Now().UTC(),
					}).Error; err != nil {
					return err
				}
			}
			byProduct[record.ID] = ports.DeductedLine{
				ProductID:   record.ID,
				ProductName: record.Name,
				Requested:   d.Requested,
				Deducted:    deducted,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Report lines in the caller's original order.
	lines := make([]ports.DeductedLine, 0, len(deductions))
	for _, d := range deductions {
		lines = append(lines, byProduct[d.ProductID])
	}
	return lines, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toProductRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:         product.ID,
		Name:       product.Name,
		Quantity:   product.Quantity,
		Price:      product.Price,
		CategoryID: product.CategoryID,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:         r.ID,
		Name:       r.Name,
		Quantity:   r.Quantity,
		Price:      r.Price,
		CategoryID: r.CategoryID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
