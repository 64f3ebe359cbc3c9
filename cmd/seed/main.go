package main

import (
	"context"
	"log"
	"os"

	"tradeport/internal/config"
	"tradeport/internal/db"
	"tradeport/internal/kv"
	"tradeport/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.DBConnString == "" {
		logger.Fatalf("DB_DSN is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	count, err := seed.Apply(ctx, kv.NewPostgres(pool))
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seeded catalog with %d products", count)
}
