package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"tradeport/internal/config"
	"tradeport/internal/db"
	"tradeport/internal/importer"
	"tradeport/internal/kv"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC)
	ctx := context.Background()

	if cfg.DBConnString == "" {
		logger.Fatalf("DB_DSN is required")
	}
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	start := time.Now()
	count, err := importer.Import(ctx, f, kv.NewPostgres(pool), logger)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
