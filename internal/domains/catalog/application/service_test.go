package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/adapters/memory"
	"github.com/itay19101973/E-commerce-system/internal/domains/catalog/ports"
)

func newCatalogFixture(t *testing.T) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	return NewService(repo), repo
}

func TestAddAndGetProductInfo(t *testing.T) {
	service, _ := newCatalogFixture(t)
	ctx := context.Background()

	_, err := service.AddCategory(ctx, "electronics")
	require.NoError(t, err)

	product, err := service.AddProduct(ctx, "keyboard", 10, 39.9, "electronics")
	require.NoError(t, err)
	require.NotZero(t, product.ID)

	info, err := service.GetProductInfo(ctx, "keyboard")
	require.NoError(t, err)
	require.Equal(t, product.ID, info.ID)
	require.Equal(t, int64(10), info.Quantity)
	require.Equal(t, 39.9, info.Price)
	require.Equal(t, "electronics", info.Category)
}

func TestAddProductRequiresExistingCategory(t *testing.T) {
	service, _ := newCatalogFixture(t)

	_, err := service.AddProduct(context.Background(), "keyboard", 10, 39.9, "missing")
	require.ErrorIs(t, err, ports.ErrCategoryNotFound)
}

func TestAddProductValidation(t *testing.T) {
	service, _ := newCatalogFixture(t)
	ctx := context.Background()

	_, err := service.AddCategory(ctx, "electronics")
	require.NoError(t, err)

	_, err = service.AddProduct(ctx, "", 10, 39.9, "electronics")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.AddProduct(ctx, "keyboard", -1, 39.9, "electronics")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.AddProduct(ctx, "keyboard", 10, -0.5, "electronics")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProductAppliesOnlyPresentFields(t *testing.T) {
	service, _ := newCatalogFixture(t)
	ctx := context.Background()

	_, err := service.AddCategory(ctx, "electronics")
	require.NoError(t, err)
	product, err := service.AddProduct(ctx, "keyboard", 10, 39.9, "electronics")
	require.NoError(t, err)

	zero := int64(0)
	updated, err := service.UpdateProduct(ctx, product.ID, ports.ProductUpdate{Quantity: &zero})
	require.NoError(t, err)
	require.Equal(t, int64(0), updated.Quantity)
	// Absent fields stay untouched.
	require.Equal(t, "keyboard", updated.Name)
	require.Equal(t, 39.9, updated.Price)

	price := 45.0
	name := "mechanical keyboard"
	updated, err = service.UpdateProduct(ctx, product.ID, ports.ProductUpdate{Name: &name, Price: &price})
	require.NoError(t, err)
	require.Equal(t, "mechanical keyboard", updated.Name)
	require.Equal(t, 45.0, updated.Price)

	bogus := int64(999)
	_, err = service.UpdateProduct(ctx, product.ID, ports.ProductUpdate{CategoryID: &bogus})
	require.ErrorIs(t, err, ports.ErrCategoryNotFound)
}

func TestDeductStockClampsAtZero(t *testing.T) {
	service, _ := newCatalogFixture(t)
	ctx := context.Background()

	_, err := service.AddCategory(ctx, "electronics")
	require.NoError(t, err)
	product, err := service.AddProduct(ctx, "keyboard", 2, 39.9, "electronics")
	require.NoError(t, err)

	lines, err := service.DeductStock(ctx, []ports.StockDeduction{{ProductID: product.ID, Requested: 5}})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, int64(5), lines[0].Requested)
	require.Equal(t, int64(2), lines[0].Deducted)

	info, err := service.GetProductInfo(ctx, "keyboard")
	require.NoError(t, err)
	require.Equal(t, int64(0), info.Quantity)

	// A drained product deducts nothing further.
	lines, err = service.DeductStock(ctx, []ports.StockDeduction{{ProductID: product.ID, Requested: 1}})
	require.NoError(t, err)
	require.Equal(t, int64(0), lines[0].Deducted)
}

func TestDeductStockUnknownProduct(t *testing.T) {
	service, _ := newCatalogFixture(t)

	_, err := service.DeductStock(context.Background(), []ports.StockDeduction{{ProductID: 42, Requested: 1}})
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestGetProductsByIDsSkipsMissing(t *testing.T) {
	service, _ := newCatalogFixture(t)
	ctx := context.Background()

	_, err := service.AddCategory(ctx, "electronics")
	require.NoError(t, err)
	product, err := service.AddProduct(ctx, "keyboard", 10, 39.9, "electronics")
	require.NoError(t, err)

	products, err := service.GetProductsByIDs(ctx, []int64{product.ID, 999})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Contains(t, products, product.ID)
}

func TestCategoryLifecycle(t *testing.T) {
	service, repo := newCatalogFixture(t)
	ctx := context.Background()

	electronics, err := service.AddCategory(ctx, "electronics")
	require.NoError(t, err)
	_, err = service.AddCategory(ctx, "books")
	require.NoError(t, err)

	_, err = service.AddCategory(ctx, "electronics")
	require.ErrorIs(t, err, ports.ErrDuplicateCategory)

	categories, err := service.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	product, err := service.AddProduct(ctx, "keyboard", 10, 39.9, "electronics")
	require.NoError(t, err)

	// Deleting the category cascades to its products.
	require.NoError(t, service.DeleteCategory(ctx, electronics.ID))
	_, err = repo.GetProductByID(ctx, product.ID)
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}
