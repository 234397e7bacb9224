//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/itay19101973/E-commerce-system/internal/domains/users/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/users/ports"
	"github.com/itay19101973/E-commerce-system/internal/platform/migrations"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func TestRepository_SaveAndGetByEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("Alice@Example.com", "Alice Doe", "hashed-password")
	require.NoError(t, err)

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "alice@example.com", saved.Email)

	fetched, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, "Alice Doe", fetched.FullName)

	byID, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Email, byID.Email)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first, err := domain.NewUser("alice@example.com", "Alice Doe", "hash-one")
	require.NoError(t, err)
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	second, err := domain.NewUser("Alice@Example.com", "Another Alice", "hash-two")
	require.NoError(t, err)
	_, err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, ports.ErrEmailTaken)
}

func TestTokenStore_RevokeAndPurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	store := NewTokenStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Revoke(ctx, "expired-jti", now.Add(-time.Hour)))
	require.NoError(t, store.Revoke(ctx, "live-jti", now.Add(time.Hour)))
	// Revoking the same jti twice is a no-op, not an error.
	require.NoError(t, store.Revoke(ctx, "live-jti", now.Add(time.Hour)))

	revoked, err := store.IsRevoked(ctx, "live-jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "unknown-jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	revoked, err = store.IsRevoked(ctx, "expired-jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = store.IsRevoked(ctx, "live-jti")
	require.NoError(t, err)
	assert.True(t, revoked)
}
