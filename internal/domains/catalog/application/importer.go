package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/ports"
)

// productRow mirrors one line of the bulk-import CSV.
type productRow struct {
	Name     string  `csv:"name"`
	Quantity int64   `csv:"quantity"`
	Price    float64 `csv:"price"`
	Category string  `csv:"category"`
}

// ImportSummary reports the outcome of a catalog import run.
type ImportSummary struct {
	Created int
	Skipped int
}

// Importer bulk-loads products from a CSV file into the catalog,
// creating missing categories on the fly.
type Importer struct {
	repo   ports.Repository
	logger *slog.Logger
}

// NewImporter wires a catalog importer.
func NewImporter(repo ports.Repository, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{repo: repo, logger: logger}
}

// ImportFile reads the CSV at path and loads its rows. Rows whose product
// name already exists are skipped with a warning rather than failing the run.
func (i *Importer) ImportFile(ctx context.Context, path string) (*ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close()

	var rows []*productRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse catalog csv: %w", err)
	}

	summary := &ImportSummary{}
	for _, row := range rows {
		if err := i.importRow(ctx, row, summary); err != nil {
			return nil, err
		}
	}
	i.logger.Info("catalog import finished",
		slog.String("path", path),
		slog.Int("created", summary.Created),
		slog.Int("skipped", summary.Skipped))
	return summary, nil
}

func (i *Importer) importRow(ctx context.Context, row *productRow, summary *ImportSummary) error {
	name := strings.TrimSpace(row.Name)
	categoryName := strings.TrimSpace(row.Category)

	if _, err := i.repo.GetProductByName(ctx, name); err == nil {
		i.logger.Warn("skipping duplicate product", slog.String("name", name))
		summary.Skipped++
		return nil
	} else if !errors.Is(err, ports.ErrProductNotFound) {
		return err
	}

	category, err := i.ensureCategory(ctx, categoryName)
	if err != nil {
		return err
	}

	product, err := domain.NewProduct(0, name, row.Quantity, row.Price, category.ID)
	if err != nil {
		return fmt.Errorf("invalid catalog row %q: %w", name, err)
	}
	if _, err := i.repo.SaveProduct(ctx, product); err != nil {
		return err
	}
	summary.Created++
	return nil
}

func (i *Importer) ensureCategory(ctx context.Context, name string) (*domain.Category, error) {
	category, err := i.repo.GetCategoryByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, ports.ErrCategoryNotFound) {
		return nil, err
	}
	created, err := domain.NewCategory(0, name)
	if err != nil {
		return nil, err
	}
	return i.repo.SaveCategory(ctx, created)
}
