package ports

import (
	"context"
	"errors"

	"github.com/itay19101973/E-commerce-system/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrAlreadyExecuted is returned by the compare-and-set transition when
	// the executed flag was already true.
	ErrAlreadyExecuted = errors.New("order already executed")
)

// Repository persists order aggregates with their items fully materialized.
// There are no lazy relationships; every read returns the complete aggregate.
type Repository interface {
	// Create persists a new order with its items in one transaction;
	// a failure leaves no partial order behind.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	ListExecuted(ctx context.Context) ([]*domain.Order, error)
	// ReplaceItems atomically discards the order's items and inserts the new
	// set, bumping updated_at. Readers never observe the intermediate empty
	// state, and a mid-insert failure rolls the whole replacement back.
	ReplaceItems(ctx context.Context, orderID int64, items []domain.OrderItem) (*domain.Order, error)
	// MarkExecuted flips executed false->true with compare-and-set
	// semantics: of two concurrent calls exactly one succeeds, the other
	// gets ErrAlreadyExecuted.
	MarkExecuted(ctx context.Context, orderID int64) error
	// Delete removes the order and cascades to its items.
	Delete(ctx context.Context, id int64) error
}
