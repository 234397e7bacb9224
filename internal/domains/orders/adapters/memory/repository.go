package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/itay19101973/E-commerce-system/internal/domains/orders/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order store guarded by a mutex. It mirrors the
// transactional guarantees of the SQL adapter: aggregates are stored and
// returned as copies, and the executed flag flips under the lock so only one
// of two concurrent executions can win.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

// NewRepository returns an empty in-memory order repository.
func NewRepository() *Repository {
	return &Repository{orders: make(map[int64]*domain.Order), nextID: 1}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneOrder(order)
	stored.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.orders[stored.ID] = stored
	return cloneOrder(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) ListByUser(_ context.Context, userID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			result = append(result, cloneOrder(order))
		}
	}
	sortByID(result)
	return result, nil
}

func (r *Repository) ListExecuted(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Order
	for _, order := range r.orders {
		if order.Executed {
			result = append(result, cloneOrder(order))
		}
	}
	sortByID(result)
	return result, nil
}

func (r *Repository) ReplaceItems(_ context.Context, orderID int64, items []domain.OrderItem) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if order.Executed {
		return nil, ports.ErrAlreadyExecuted
	}
	order.Items = append([]domain.OrderItem(nil), items...)
	order.UpdatedAt = time.Now().UTC()
	return cloneOrder(order), nil
}

func (r *Repository) MarkExecuted(_ context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return ports.ErrNotFound
	}
	if order.Executed {
		return ports.ErrAlreadyExecuted
	}
	order.Executed = true
	order.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	if order == nil {
		return nil
	}
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	return &clone
}

func sortByID(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
}
