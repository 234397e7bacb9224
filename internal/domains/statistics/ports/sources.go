package ports

import "context"

// SoldItem is one line of an executed order as the aggregator sees it.
type SoldItem struct {
	ProductID int64
	Quantity  int64
	UnitPrice float64
}

// ExecutedOrder is the read-model the aggregator consumes.
type ExecutedOrder struct {
	ID    int64
	Items []SoldItem
}

// OrderSource provides the executed orders the aggregations are derived
// from. The aggregator recomputes on every read; there is no cached state.
type OrderSource interface {
	ListExecutedOrders(ctx context.Context) ([]ExecutedOrder, error)
}

// ProductRef resolves a product id to its name and category.
type ProductRef struct {
	ID         int64
	Name       string
	CategoryID int64
}

// CategoryRef resolves a category id to its name.
type CategoryRef struct {
	ID   int64
	Name string
}

// CatalogSource resolves product and category identities for reporting.
type CatalogSource interface {
	ProductsByIDs(ctx context.Context, ids []int64) (map[int64]ProductRef, error)
	Categories(ctx context.Context) (map[int64]CategoryRef, error)
}
