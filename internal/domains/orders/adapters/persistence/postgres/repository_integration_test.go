//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/itay19101973/E-commerce-system/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/itay19101973/E-commerce-system/internal/domains/catalog/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/orders/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
	"github.com/itay19101973/E-commerce-system/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("commerce_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

// seedProduct creates a category and a product so the order item foreign
// keys have something to point at.
func seedProduct(t *testing.T, db *gorm.DB, name string, quantity int64, price float64) int64 {
	t.Helper()
	repo := catalogpostgres.NewRepository(db)
	ctx := context.Background()

	category, err := repo.GetCategoryByName(ctx, "seeded")
	if err != nil {
		created, cerr := catalogdomain.NewCategory(0, "seeded")
		require.NoError(t, cerr)
		category, err = repo.SaveCategory(ctx, created)
		require.NoError(t, err)
	}

	product, err := catalogdomain.NewProduct(0, name, quantity, price, category.ID)
	require.NoError(t, err)
	saved, err := repo.SaveProduct(ctx, product)
	require.NoError(t, err)
	return saved.ID
}

func TestRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	productID := seedProduct(t, db, "keyboard", 10, 39.9)

	order, err := domain.NewOrder(1, []domain.OrderItem{{ProductID: productID, Quantity: 2, UnitPrice: 39.9}})
	require.NoError(t, err)

	saved, err := repo.Create(ctx, order)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.False(t, saved.Executed)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, 39.9, saved.Items[0].UnitPrice)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, saved.Items, fetched.Items)

	_, err = repo.GetByID(ctx, saved.ID+1000)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListByUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	productID := seedProduct(t, db, "keyboard", 100, 39.9)

	for user := int64(1); user <= 2; user++ {
		order, err := domain.NewOrder(user, []domain.OrderItem{{ProductID: productID, Quantity: user, UnitPrice: 39.9}})
		require.NoError(t, err)
		_, err = repo.Create(ctx, order)
		require.NoError(t, err)
	}

	orders, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(1), orders[0].UserID)

	orders, err = repo.ListByUser(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRepository_ReplaceItems(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	keyboardID := seedProduct(t, db, "keyboard", 10, 39.9)
	mouseID := seedProduct(t, db, "mouse", 25, 12.5)

	order, err := domain.NewOrder(1, []domain.OrderItem{{ProductID: keyboardID, Quantity: 2, UnitPrice: 39.9}})
	require.NoError(t, err)
	saved, err := repo.Create(ctx, order)
	require.NoError(t, err)

	updated, err := repo.ReplaceItems(ctx, saved.ID, []domain.OrderItem{{ProductID: mouseID, Quantity: 3, UnitPrice: 12.5}})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, mouseID, updated.Items[0].ProductID)

	// Once executed, the item set is frozen.
	require.NoError(t, repo.MarkExecuted(ctx, saved.ID))
	_, err = repo.ReplaceItems(ctx, saved.ID, []domain.OrderItem{{ProductID: keyboardID, Quantity: 1, UnitPrice: 39.9}})
	assert.ErrorIs(t, err, ports.ErrAlreadyExecuted)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, mouseID, fetched.Items[0].ProductID)
}

func TestRepository_MarkExecutedIsCompareAndSet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	productID := seedProduct(t, db, "keyboard", 10, 39.9)

	order, err := domain.NewOrder(1, []domain.OrderItem{{ProductID: productID, Quantity: 1, UnitPrice: 39.9}})
	require.NoError(t, err)
	saved, err := repo.Create(ctx, order)
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			errs[slot] = repo.MarkExecuted(ctx, saved.ID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ports.ErrAlreadyExecuted)
		}
	}
	assert.Equal(t, 1, wins)

	assert.ErrorIs(t, repo.MarkExecuted(ctx, saved.ID+1000), ports.ErrNotFound)

	executed, err := repo.ListExecuted(ctx)
	require.NoError(t, err)
	require.Len(t, executed, 1)
	assert.True(t, executed[0].Executed)
}

func TestRepository_DeleteCascadesToItems(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	productID := seedProduct(t, db, "keyboard", 10, 39.9)

	order, err := domain.NewOrder(1, []domain.OrderItem{{ProductID: productID, Quantity: 2, UnitPrice: 39.9}})
	require.NoError(t, err)
	saved, err := repo.Create(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	_, err = repo.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	var itemCount int64
	require.NoError(t, db.Table("order_items").Where("order_id = ?", saved.ID).Count(&itemCount).Error)
	assert.Equal(t, int64(0), itemCount)

	assert.ErrorIs(t, repo.Delete(ctx, saved.ID), ports.ErrNotFound)
}
