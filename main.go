package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/pastryshop/backend/internal/cart"
	"github.com/pastryshop/backend/internal/catalog"
	"github.com/pastryshop/backend/internal/config"
	deliveryhttp "github.com/pastryshop/backend/internal/delivery/http"
	"github.com/pastryshop/backend/internal/ledger"
	"github.com/pastryshop/backend/internal/messaging"
	"github.com/pastryshop/backend/internal/report"
	"github.com/pastryshop/backend/internal/session"
	"github.com/pastryshop/backend/internal/storage"
	filestore "github.com/pastryshop/backend/internal/storage/file"
	"github.com/pastryshop/backend/internal/storage/postgres"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Storage ---
	var (
		catalogStore storage.CatalogStore
		orderLog     storage.OrderLog
	)
	switch cfg.Storage {
	case "postgres":
		db, err := postgres.InitDB(cfg.PostgresDSN)
		if err != nil {
			slog.Error("Failed to init database", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		catalogStore = postgres.NewCatalogStore(db)
		orderLog = postgres.NewOrderLog(db)
	default:
		catalogStore = &filestore.CatalogStore{Path: cfg.CatalogPath}
		orderLog = &filestore.OrderLog{Path: cfg.OrderLogPath}
	}

	products, err := catalogStore.Load(ctx)
	if err != nil {
		slog.Error("Failed to load catalog", "err", err)
		os.Exit(1)
	}
	shopCatalog := catalog.New(products...)

	// --- Messaging ---
	var publisher message.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = messaging.NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			slog.Error("Failed to create kafka publisher", "err", err)
			os.Exit(1)
		}
	} else {
		publisher = messaging.NewGoChannelPubSub()
	}
	defer publisher.Close()

	// --- Ledger ---
	orderLedger := ledger.New(ledger.WithPublisher(messaging.NewWatermillPublisher(publisher)))
	orders, err := orderLog.Load(ctx, shopCatalog.FindByName)
	if err != nil {
		slog.Error("Failed to load order log", "err", err)
		os.Exit(1)
	}
	for _, o := range orders {
		orderLedger.Append(o)
	}

	// --- HTTP API ---
	var cartOpts []cart.Option
	if cfg.RestoreStockOnRemove {
		cartOpts = append(cartOpts, cart.WithStockRestore())
	}
	sessions := session.NewRegistry(cartOpts...)
	reports := report.NewEngine(shopCatalog, orderLedger, report.DirSink{Dir: cfg.ReportsDir})

	handler := deliveryhttp.NewHandler(shopCatalog, orderLedger, sessions, reports)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: deliveryhttp.EnableCORS(mux),
	}

	go func() {
		slog.Info("HTTP server starting", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")
	httpServer.Shutdown(context.Background())

	// Persist state on the way out. Failures are logged, not retried.
	saveCtx := context.Background()
	if err := catalogStore.Save(saveCtx, shopCatalog.Products()); err != nil {
		slog.Error("Failed to save catalog", "err", err)
	}
	if err := orderLog.Save(saveCtx, orderLedger.Orders()); err != nil {
		slog.Error("Failed to save order log", "err", err)
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
