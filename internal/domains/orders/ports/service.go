package ports

import (
	"context"

	"github.com/itay19101973/E-commerce-system/internal/domains/orders/domain"
)

// ItemRequest is a requested order line before price snapshotting.
type ItemRequest struct {
	ProductID int64
	Quantity  int64
}

// ProjectedItem is an order line resolved with its product name.
type ProjectedItem struct {
	ProductID   int64
	ProductName string
	Quantity    int64
	UnitPrice   float64
}

// OrderProjection is an order with its items resolved for presentation.
type OrderProjection struct {
	Order *domain.Order
	Items []ProjectedItem
}

// ExecutionLine reports the fulfillment of one order line.
type ExecutionLine struct {
	ProductID   int64
	ProductName string
	Requested   int64
	Deducted    int64
	UnitPrice   float64
}

// ExecutionReport is the outcome of executing an order: what was actually
// deducted per line and the final price computed from deducted quantities.
type ExecutionReport struct {
	OrderID    int64
	Lines      []ExecutionLine
	TotalPrice float64
}

// Service exposes the order lifecycle use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, callerID int64, items []ItemRequest) (*domain.Order, error)
	GetOrdersForUser(ctx context.Context, userID int64) ([]*OrderProjection, error)
	ReplaceOrderItems(ctx context.Context, orderID, callerID int64, items []ItemRequest) (*OrderProjection, error)
	ExecuteOrder(ctx context.Context, orderID, callerID int64) (*ExecutionReport, error)
	DeleteOrder(ctx context.Context, orderID, callerID int64) error
}
