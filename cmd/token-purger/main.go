package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	userspostgres "github.com/itay19101973/E-commerce-system/internal/domains/users/adapters/persistence/postgres"
	platformpostgres "github.com/itay19101973/E-commerce-system/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge revoked tokens")
	}

	store := userspostgres.NewTokenStore(db)
	purged, err := store.PurgeExpired(ctx, time.Now())
	if err != nil {
		log.Fatalf("failed to purge revoked tokens: %v", err)
	}
	log.Printf("token purge completed: %d expired revocations removed", purged)
}
