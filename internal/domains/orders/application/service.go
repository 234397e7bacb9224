package application

import (
	"context"
	"fmt"

	"github.com/itay19101973/E-commerce-system/internal/domains/orders/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
)

// Service is the order lifecycle engine. It orchestrates create, replace,
// execute, and delete against the order repository and the inventory
// catalog, enforcing ownership and state-transition rules.
type Service struct {
	repo    ports.Repository
	catalog ports.Catalog
}

// NewService wires the lifecycle engine with its collaborators.
func NewService(repo ports.Repository, catalog ports.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// CreateOrder persists a new pending order for the caller. Every requested
// product must resolve; its current price is snapshotted into the item.
// Creation is all-or-nothing: a failed resolution leaves no partial order.
func (s *Service) CreateOrder(ctx context.Context, callerID int64, items []ports.ItemRequest) (*domain.Order, error) {
	lines, err := s.snapshotItems(ctx, items)
	if err != nil {
		return nil, err
	}
	order, err := domain.NewOrder(callerID, lines)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetOrdersForUser returns all orders owned by the user, executed or not,
// with every line resolved to its product name.
func (s *Service) GetOrdersForUser(ctx context.Context, userID int64) ([]*ports.OrderProjection, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}
	projections := make([]*ports.OrderProjection, 0, len(orders))
	for _, order := range orders {
		projection, err := s.project(ctx, order)
		if err != nil {
			return nil, err
		}
		projections = append(projections, projection)
	}
	return projections, nil
}

// ReplaceOrderItems atomically swaps the order's item set for a new one with
// freshly snapshotted prices. Executed orders cannot be modified.
func (s *Service) ReplaceOrderItems(ctx context.Context, orderID, callerID int64, items []ports.ItemRequest) (*ports.OrderProjection, error) {
	order, err := s.loadOwned(ctx, orderID, callerID)
	if err != nil {
		return nil, err
	}
	if order.Executed {
		return nil, ports.ErrAlreadyExecuted
	}
	lines, err := s.snapshotItems(ctx, items)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.ReplaceItems(ctx, orderID, lines)
	if err != nil {
		return nil, mapError(err)
	}
	return s.project(ctx, updated)
}

// ExecuteOrder performs the one-way transition that deducts inventory and
// finalizes the order's economics.
//
// The executed flag is flipped first with compare-and-set semantics; that
// commit point is what makes the transition exactly-once under concurrency.
// If the subsequent inventory deduction fails, the failure is surfaced but
// the order stays executed: a committed order is fulfilled best-effort, not
// rolled back.
func (s *Service) ExecuteOrder(ctx context.Context, orderID, callerID int64) (*ports.ExecutionReport, error) {
	order, err := s.loadOwned(ctx, orderID, callerID)
	if err != nil {
		return nil, err
	}
	if order.Executed {
		return nil, ports.ErrAlreadyExecuted
	}
	if err := s.repo.MarkExecuted(ctx, orderID); err != nil {
		return nil, mapError(err)
	}

	// The flag flip freezes the item set. Re-read it so a replacement that
	// committed between the ownership check and the flip is the set that
	// gets fulfilled, not the one loaded before.
	order, err = s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: order %d: %v", ErrFulfillment, orderID, err)
	}

	deductions := make([]ports.Deduction, 0, len(order.Items))
	for _, item := range order.Items {
		deductions = append(deductions, ports.Deduction{ProductID: item.ProductID, Requested: item.Quantity})
	}
	results, err := s.catalog.DeductStock(ctx, deductions)
	if err != nil {
		return nil, fmt.Errorf("%w: order %d: %v", ErrFulfillment, orderID, err)
	}

	byProduct := make(map[int64]ports.DeductionResult, len(results))
	for _, result := range results {
		byProduct[result.ProductID] = result
	}
	report := &ports.ExecutionReport{OrderID: orderID}
	for _, item := range order.Items {
		result := byProduct[item.ProductID]
		report.Lines = append(report.Lines, ports.ExecutionLine{
			ProductID:   item.ProductID,
			ProductName: result.ProductName,
			Requested:   item.Quantity,
			Deducted:    result.Deducted,
			UnitPrice:   item.UnitPrice,
		})
		report.TotalPrice += item.UnitPrice * float64(result.Deducted)
	}
	return report, nil
}

// DeleteOrder removes an owned order and its items. Executed orders may be
// deleted as well; historical aggregates shift accordingly.
func (s *Service) DeleteOrder(ctx context.Context, orderID, callerID int64) error {
	if _, err := s.loadOwned(ctx, orderID, callerID); err != nil {
		return err
	}
	return mapError(s.repo.Delete(ctx, orderID))
}

func (s *Service) loadOwned(ctx context.Context, orderID, callerID int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if !order.OwnedBy(callerID) {
		return nil, ErrNotOwned
	}
	return order, nil
}

// snapshotItems validates the request structurally, resolves every product,
// and pins the current catalog price into each line.
func (s *Service) snapshotItems(ctx context.Context, items []ports.ItemRequest) ([]domain.OrderItem, error) {
	requested := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		requested = append(requested, domain.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if err := domain.ValidateItems(requested); err != nil {
		return nil, mapError(err)
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	snapshots, err := s.catalog.ResolveProducts(ctx, ids)
	if err != nil {
		return nil, mapError(err)
	}
	for i := range requested {
		snapshot, ok := snapshots[requested[i].ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", ports.ErrProductNotFound, requested[i].ProductID)
		}
		requested[i].UnitPrice = snapshot.Price
	}
	return requested, nil
}

// project resolves the order's lines to product names. A line whose product
// no longer exists is a data-integrity fault and is reported as an error
// rather than silently dropped.
func (s *Service) project(ctx context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	ids := make([]int64, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	snapshots, err := s.catalog.ResolveProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", order.ID, err)
	}
	projection := &ports.OrderProjection{Order: order}
	for _, item := range order.Items {
		snapshot, ok := snapshots[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("order %d references missing product %d", order.ID, item.ProductID)
		}
		projection.Items = append(projection.Items, ports.ProjectedItem{
			ProductID:   item.ProductID,
			ProductName: snapshot.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return projection, nil
}

var _ ports.Service = (*Service)(nil)
