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
	"go.uber.org/multierr"

	"github.com/beanflow/cafe-pos-backend/api/routes"
	"github.com/beanflow/cafe-pos-backend/internal/catalog"
	"github.com/beanflow/cafe-pos-backend/internal/ledger"
	"github.com/beanflow/cafe-pos-backend/internal/orders"
	"github.com/beanflow/cafe-pos-backend/internal/register"
	"github.com/beanflow/cafe-pos-backend/internal/stock"
	"github.com/beanflow/cafe-pos-backend/pkg/config"
	"github.com/beanflow/cafe-pos-backend/pkg/db"
	"github.com/beanflow/cafe-pos-backend/pkg/logger"
	"github.com/beanflow/cafe-pos-backend/pkg/metrics"
	"github.com/beanflow/cafe-pos-backend/pkg/migrate"
	"github.com/beanflow/cafe-pos-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	registerMetrics := metrics.NewRegisterMetrics(promRegistry)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}
	if err := catalogService.Refresh(ctx); err != nil {
		logg.Error(ctx, "failed to load product catalog", err)
		os.Exit(1)
	}

	stockSnapshot, err := stock.NewSnapshot(stock.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create stock snapshot", err)
		os.Exit(1)
	}
	if err := stockSnapshot.Refresh(ctx); err != nil {
		logg.Error(ctx, "failed to load stock snapshot", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create ledger service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), ledgerService, dbClient, registerMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	session, err := register.NewSession(catalogService, registerMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create register session", err)
		os.Exit(1)
	}

	subscriber := stock.NewSubscriber(redisClient, stockSnapshot, logg, cfg.Inventory.RefreshChannel)
	go func() {
		if err := subscriber.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "inventory subscription stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient, promRegistry,
			session, catalogService, stockSnapshot, ordersService, ledgerService,
		),
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(startCtx, "graceful shutdown failed", err)
	}

	closeErr := multierr.Combine(redisClient.Close(), dbClient.Close())
	if closeErr != nil {
		logg.Error(startCtx, "error closing backing stores", closeErr)
	}
	logg.Info(startCtx, "api server stopped")
}
