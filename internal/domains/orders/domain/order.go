package domain

import (
	"errors"
	"time"
)

var (
	ErrNoItems          = errors.New("order must contain at least one item")
	ErrInvalidQuantity  = errors.New("item quantity must be greater than zero")
	ErrInvalidProductID = errors.New("item product id must be greater than zero")
	ErrDuplicateItem    = errors.New("order lists the same product twice")
	ErrExecuted         = errors.New("order is already executed")
)

// OrderItem is a line of an order. UnitPrice is a snapshot of the product's
// price at the moment the item was added and is never recomputed afterwards.
type OrderItem struct {
	ProductID int64
	Quantity  int64
	UnitPrice float64
}

// Order is a user's cart-to-purchase aggregate. It stays mutable until
// Executed flips to true, which happens exactly once and is terminal.
type Order struct {
	ID        int64
	UserID    int64
	Executed  bool
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder validates the item list and builds a pending order for the user.
func NewOrder(userID int64, items []OrderItem) (*Order, error) {
	order := &Order{UserID: userID}
	if err := order.ReplaceItems(items); err != nil {
		return nil, err
	}
	return order, nil
}

// ReplaceItems swaps the full item set. It is a replace, not a merge, and is
// rejected once the order has been executed.
func (o *Order) ReplaceItems(items []OrderItem) error {
	if o.Executed {
		return ErrExecuted
	}
	if err := ValidateItems(items); err != nil {
		return err
	}
	o.Items = append([]OrderItem{}, items...)
	return nil
}

// MarkExecuted flips the terminal flag; calling it twice is an error.
func (o *Order) MarkExecuted() error {
	if o.Executed {
		return ErrExecuted
	}
	o.Executed = true
	return nil
}

// OwnedBy reports whether the order belongs to the given user.
func (o *Order) OwnedBy(userID int64) bool {
	return o.UserID == userID
}

// TotalPrice sums unit_price x quantity over the current item set.
func (o *Order) TotalPrice() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// ValidateItems enforces the structural invariants of an item list:
// non-empty, positive quantities, valid product references, and at most one
// line per product (order_id, product_id) identity.
func ValidateItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return ErrInvalidProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if _, ok := seen[item.ProductID]; ok {
			return ErrDuplicateItem
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}
