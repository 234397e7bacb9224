package catalog

import (
	"context"
	"errors"
	"fmt"

	catalogports "github.com/itay19101973/E-commerce-system/internal/domains/catalog/ports"
	"github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
)

var _ ports.Catalog = (*Adapter)(nil)

// Adapter bridges the order lifecycle engine to the catalog context. It
// translates between the two contexts' types and error vocabularies so the
// orders packages never import catalog internals.
type Adapter struct {
	catalog catalogports.Service
}

// NewAdapter wraps the catalog service for use by the orders context.
func NewAdapter(catalog catalogports.Service) *Adapter {
	return &Adapter{catalog: catalog}
}

// ResolveProducts returns a snapshot for every id, failing if any id is
// unknown to the catalog.
func (a *Adapter) ResolveProducts(ctx context.Context, ids []int64) (map[int64]ports.ProductSnapshot, error) {
	products, err := a.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, translate(err)
	}
	snapshots := make(map[int64]ports.ProductSnapshot, len(products))
	for id, product := range products {
		snapshots[id] = ports.ProductSnapshot{ID: product.ID, Name: product.Name, Price: product.Price}
	}
	for _, id := range ids {
		if _, ok := snapshots[id]; !ok {
			return nil, fmt.Errorf("%w: product %d", ports.ErrProductNotFound, id)
		}
	}
	return snapshots, nil
}

// DeductStock forwards the batch deduction and maps the result lines.
func (a *Adapter) DeductStock(ctx context.Context, deductions []ports.Deduction) ([]ports.DeductionResult, error) {
	request := make([]catalogports.StockDeduction, 0, len(deductions))
	for _, d := range deductions {
		request = append(request, catalogports.StockDeduction{ProductID: d.ProductID, Requested: d.Requested})
	}
	lines, err := a.catalog.DeductStock(ctx, request)
	if err != nil {
		return nil, translate(err)
	}
	results := make([]ports.DeductionResult, 0, len(lines))
	for _, line := range lines {
		results = append(results, ports.DeductionResult{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Requested:   line.Requested,
			Deducted:    line.Deducted,
		})
	}
	return results, nil
}

func translate(err error) error {
	if errors.Is(err, catalogports.ErrProductNotFound) {
		return fmt.Errorf("%w: %v", ports.ErrProductNotFound, err)
	}
	return err
}
