package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. The adapters never
// automigrate; this is the single owner of tables and constraints.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&revokedTokenRecord{},
		&categoryRecord{},
		&productRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	FullName     string    `gorm:"column:full_name"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Revoked token schema mirrors the users token store.
type revokedTokenRecord struct {
	JTI       string    `gorm:"primaryKey;column:jti;size:64"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
}

func (revokedTokenRecord) TableName() string { return "revoked_tokens" }

// Category schema mirrors the catalog Postgres adapter.
type categoryRecord struct {
	ID   int64  `gorm:"primaryKey;column:id"`
	Name string `gorm:"column:name;uniqueIndex"`
}

func (categoryRecord) TableName() string { return "categories" }

// Product schema mirrors the catalog Postgres adapter. Deleting a category
// cascades to its products.
type productRecord struct {
	ID         int64          `gorm:"primaryKey;column:id"`
	Name       string         `gorm:"column:name;uniqueIndex"`
	Quantity   int64          `gorm:"column:quantity"`
	Price      float64        `gorm:"column:price"`
	CategoryID int64          `gorm:"column:category_id;index"`
	Category   categoryRecord `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	UserID    int64     `gorm:"column:user_id;index"`
	Executed  bool      `gorm:"column:executed"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order item schema mirrors the orders Postgres adapter. Items go with
// their order; products stay referenced while any item points at them.
type orderItemRecord struct {
	ID        int64         `gorm:"primaryKey;column:id"`
	OrderID   int64         `gorm:"column:order_id;index:idx_order_items_order_product,unique"`
	ProductID int64         `gorm:"column:product_id;index:idx_order_items_order_product,unique"`
	Quantity  int64         `gorm:"column:quantity"`
	UnitPrice float64       `gorm:"column:unit_price"`
	Order     orderRecord   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Product   productRecord `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

func (orderItemRecord) TableName() string { return "order_items" }
