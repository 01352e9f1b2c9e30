package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/skillnotes/skillnotes-backend/api/routes"
	"github.com/skillnotes/skillnotes-backend/internal/cart"
	"github.com/skillnotes/skillnotes-backend/internal/catalog"
	"github.com/skillnotes/skillnotes-backend/internal/checkout"
	"github.com/skillnotes/skillnotes-backend/internal/coupons"
	"github.com/skillnotes/skillnotes-backend/internal/notifications"
	"github.com/skillnotes/skillnotes-backend/pkg/config"
	"github.com/skillnotes/skillnotes-backend/pkg/logger"
	"github.com/skillnotes/skillnotes-backend/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cartMetrics := metrics.NewCartMetrics(reg)

	backend, err := openStorage(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logg.Error(context.Background(), "failed to close storage", err)
		}
	}()

	products, err := loadCatalog(cfg.Catalog)
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}

	store, err := cart.NewStore(ctx, cart.Params{
		Storage:      backend.store,
		CartKey:      cfg.Storage.CartKey,
		PurchasesKey: cfg.Storage.PurchasesKey,
		Logger:       logg,
		Metrics:      cartMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to hydrate cart", err)
		os.Exit(1)
	}

	calc, err := checkout.NewCalculator(checkout.Params{
		Cart:     store,
		Coupons:  coupons.Builtin(),
		Notifier: notifications.NewContextNotifier(notifications.NewLogNotifier(logg)),
		Logger:   logg,
		Metrics:  cartMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to build calculator", err)
		os.Exit(1)
	}

	router := routes.NewRouter(cfg, logg, routes.Deps{
		Storage:    backend.store,
		Cart:       store,
		Calculator: calc,
		Catalog:    products,
		Gatherer:   reg,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": cfg.Storage.Driver,
	}), "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server stopped", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(context.Background(), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Static, error) {
	if cfg.File == "" {
		return catalog.Default()
	}
	return catalog.Load(cfg.File)
}
