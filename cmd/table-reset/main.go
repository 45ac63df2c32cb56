package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	catalogpostgres "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/go-gin-pos-server/internal/platform/postgres"
)

// table-reset is the end-of-day job that frees every table still marked active.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, os.Getenv("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot reset tables")
	}

	reset, err := catalogpostgres.NewRepository(db).ResetActiveTables(ctx)
	if err != nil {
		log.Fatalf("failed to reset tables: %v", err)
	}
	logger.Info("table reset completed", slog.Int64("tables", reset))
}
