package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/itay19101973/E-commerce-system/internal/domains/orders/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists order aggregates in PostgreSQL using GORM. Orders and
// their items live in separate tables; every read materializes the full
// aggregate with an explicit second query rather than lazy associations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed order repository. The schema is
// owned by internal/platform/migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	UserID    int64     `gorm:"column:user_id;index"`
	Executed  bool      `gorm:"column:executed"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64   `gorm:"primaryKey;column:id"`
	OrderID   int64   `gorm:"column:order_id;index"`
	ProductID int64   `gorm:"column:product_id"`
	Quantity  int64   `gorm:"column:quantity"`
	UnitPrice float64 `gorm:"column:unit_price"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Create inserts the order and its items in a single transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := orderRecord{
		UserID:    order.UserID,
		Executed:  order.Executed,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		items := toItemRecords(record.ID, order.Items)
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID loads the order row and then its items.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	items, err := r.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return record.toDomain(items[id]), nil
}

// ListByUser returns every order owned by the user with items attached.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return r.attachItems(ctx, records)
}

// ListExecuted returns every executed order; the statistics aggregator
// reads sales exclusively from this view.
func (r *Repository) ListExecuted(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records, "executed = ?", true).Error; err != nil {
		return nil, err
	}
	return r.attachItems(ctx, records)
}

// ReplaceItems swaps the item set inside one transaction: delete all rows,
// insert the new set, bump updated_at. A failure anywhere rolls the whole
// replacement back.
func (r *Repository) ReplaceItems(ctx context.Context, orderID int64, items []domain.OrderItem) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.First(&record, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		if record.Executed {
			return ports.ErrAlreadyExecuted
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			records := toItemRecords(orderID, items)
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}
		return tx.Model(&orderRecord{}).Where("id = ?", orderID).
			Update("updated_at", time.Now().UTC()).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

// MarkExecuted flips the executed flag with a conditional UPDATE. The
// WHERE executed = false predicate is the compare-and-set: under concurrent
// executions exactly one statement reports an affected row.
func (r *Repository) MarkExecuted(ctx context.Context, orderID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ? AND executed = ?", orderID, false).
		Updates(map[string]any{"executed": true, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing order from one that lost the race.
		var count int64
		if err := r.db.WithContext(ctx).Model(&orderRecord{}).
			Where("id = ?", orderID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrNotFound
		}
		return ports.ErrAlreadyExecuted
	}
	return nil
}

// Delete removes the order; the ON DELETE CASCADE constraint removes its
// items.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) attachItems(ctx context.Context, records []orderRecord) ([]*domain.Order, error) {
	ids := make([]int64, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for _, record := range records {
		orders = append(orders, record.toDomain(items[record.ID]))
	}
	return orders, nil
}

func (r *Repository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	result := make(map[int64][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}
	var records []orderItemRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records, "order_id IN ?", orderIDs).Error; err != nil {
		return nil, err
	}
	for _, record := range records {
		result[record.OrderID] = append(result[record.OrderID], domain.OrderItem{
			ProductID: record.ProductID,
			Quantity:  record.Quantity,
			UnitPrice: record.UnitPrice,
		})
	}
	return result, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toItemRecords(orderID int64, items []domain.OrderItem) []orderItemRecord {
	records := make([]orderItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, orderItemRecord{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return records
}

func (r orderRecord) toDomain(items []domain.OrderItem) *domain.Order {
	return &domain.Order{
		ID:        r.ID,
		UserID:    r.UserID,
		Executed:  r.Executed,
		Items:     items,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
