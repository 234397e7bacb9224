package ports

import (
	"context"
	"errors"
)

// ErrProductNotFound is returned when a requested product id does not
// resolve in the catalog.
var ErrProductNotFound = errors.New("product not found")

// ProductSnapshot is what the lifecycle engine needs from the catalog: a
// stable identity, a display name, and the current price to snapshot.
type ProductSnapshot struct {
	ID    int64
	Name  string
	Price float64
}

// Deduction asks the catalog to remove up to Requested units of a product.
type Deduction struct {
	ProductID int64
	Requested int64
}

// DeductionResult reports how much stock was actually removed for a product.
type DeductionResult struct {
	ProductID   int64
	ProductName string
	Requested   int64
	Deducted    int64
}

// Catalog is the inventory collaborator of the order lifecycle engine.
type Catalog interface {
	// ResolveProducts returns a snapshot for every requested id and fails
	// with ErrProductNotFound if any id does not resolve.
	ResolveProducts(ctx context.Context, ids []int64) (map[int64]ProductSnapshot, error)
	// DeductStock atomically removes stock with clamp-at-zero semantics;
	// the batch commits or rolls back as one unit.
	DeductStock(ctx context.Context, deductions []Deduction) ([]DeductionResult, error)
}
