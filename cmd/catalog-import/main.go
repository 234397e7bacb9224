package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	catalogpostgres "github.com/itay19101973/E-commerce-system/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/itay19101973/E-commerce-system/internal/domains/catalog/application"
	"github.com/itay19101973/E-commerce-system/internal/platform/migrations"
	platformpostgres "github.com/itay19101973/E-commerce-system/internal/platform/postgres"
)

func main() {
	path := flag.String("file", "", "path to the products CSV (name,quantity,price,category)")
	flag.Parse()
	if *path == "" {
		log.Fatal("usage: catalog-import -file products.csv")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot import catalog")
	}
	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	importer := catalogapp.NewImporter(catalogpostgres.NewRepository(db), logger)
	summary, err := importer.ImportFile(ctx, *path)
	if err != nil {
		log.Fatalf("catalog import failed: %v", err)
	}
	log.Printf("catalog import completed: %d created, %d skipped", summary.Created, summary.Skipped)
}
