package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tradeport/internal/cart"
	"tradeport/internal/catalog"
	"tradeport/internal/checkout"
	"tradeport/internal/config"
	"tradeport/internal/db"
	"tradeport/internal/httpserver"
	"tradeport/internal/kv"
	"tradeport/internal/notify"
	"tradeport/internal/orders"
	"tradeport/internal/pricewatch"
	"tradeport/internal/tracking"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var (
		store kv.Store
		pool  *pgxpool.Pool
	)
	if cfg.DBConnString != "" {
		var err error
		pool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		store = kv.NewPostgres(pool)
	} else {
		logger.Printf("DB_DSN not set, using in-memory storage")
		store = kv.NewMemory()
	}

	catalogStore := catalog.NewStore()
	if err := catalogStore.Hydrate(ctx, store); err != nil {
		logger.Fatalf("hydrate catalog: %v", err)
	}
	if cfg.UpstreamURL != "" {
		client := catalog.NewClient(cfg.UpstreamURL, cfg.UpstreamToken, logger)
		categories := catalogStore.Categories()
		if len(categories) == 0 {
			categories = []string{"Electronics", "Cars", "Spare Parts"}
		}
		if err := client.Refresh(ctx, catalogStore, categories); err != nil {
			logger.Printf("upstream catalog refresh failed, keeping stored snapshot: %v", err)
		}
	}
	logger.Printf("catalog loaded with %d products", catalogStore.Len())

	var notifier *notify.EmailService
	if cfg.PostmarkToken != "" {
		notifier = notify.NewEmailService(cfg.PostmarkToken, cfg.EmailSender)
	}

	policy := tracking.Policy{CancelFromShipped: cfg.CancelFromShipped}
	orderBook := orders.NewBook(store, policy)
	cartRegistry := cart.NewRegistry(store, catalogStore)
	orchestrator := checkout.New(orderBook, notifierOrNil(notifier), logger)
	watcher := pricewatch.NewWatcher(store, catalogStore)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, pool, httpserver.Deps{
		Catalog:   catalogStore,
		Carts:     cartRegistry,
		Checkout:  orchestrator,
		Orders:    orderBook,
		Watcher:   watcher,
		JWTSecret: cfg.JWTSecret,
		Origins:   cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// notifierOrNil keeps the orchestrator's notifier interface nil when email is
// not configured, instead of a typed nil pointer.
func notifierOrNil(n *notify.EmailService) checkout.Notifier {
	if n == nil {
		return nil
	}
	return n
}
