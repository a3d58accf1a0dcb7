package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vitrina-app/vitrina-backend/api/routes"
	"github.com/vitrina-app/vitrina-backend/internal/cart"
	"github.com/vitrina-app/vitrina-backend/internal/checkout"
	"github.com/vitrina-app/vitrina-backend/internal/inventory"
	"github.com/vitrina-app/vitrina-backend/internal/orders"
	"github.com/vitrina-app/vitrina-backend/internal/paymentmethods"
	"github.com/vitrina-app/vitrina-backend/internal/pricing"
	"github.com/vitrina-app/vitrina-backend/internal/products"
	"github.com/vitrina-app/vitrina-backend/internal/stores"
	"github.com/vitrina-app/vitrina-backend/pkg/config"
	"github.com/vitrina-app/vitrina-backend/pkg/db"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
	"github.com/vitrina-app/vitrina-backend/pkg/metrics"
	"github.com/vitrina-app/vitrina-backend/pkg/migrate"
	"github.com/vitrina-app/vitrina-backend/pkg/outbox"
	"github.com/vitrina-app/vitrina-backend/pkg/redis"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()
	cartRepo := cart.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)

	storesService, err := stores.NewService(conn)
	exitOnError(logg, "failed to create stores service", err)

	productsService, err := products.NewService(products.NewRepository(conn))
	exitOnError(logg, "failed to create products service", err)

	inventoryService, err := inventory.NewService(inventory.NewRepository(conn), dbClient, logg)
	exitOnError(logg, "failed to create inventory service", err)

	pricingService, err := pricing.NewService(pricing.NewRepository(conn), dbClient, redisClient, cfg.Cache.PriceListTTL, logg)
	exitOnError(logg, "failed to create pricing service", err)

	cartService, err := cart.NewService(cartRepo, dbClient, logg)
	exitOnError(logg, "failed to create cart service", err)

	paymentsService, err := paymentmethods.NewService(conn)
	exitOnError(logg, "failed to create payment methods service", err)

	ordersService, err := orders.NewService(orderRepo, logg)
	exitOnError(logg, "failed to create orders service", err)

	outboxService := outbox.NewService(outbox.NewRepository(conn), logg)

	checkoutService, err := checkout.NewService(
		dbClient,
		cartRepo,
		orderRepo,
		paymentsService,
		inventoryService,
		outboxService,
		redisClient,
		cfg.Checkout.IdempotencyTTL,
		logg,
	)
	exitOnError(logg, "failed to create checkout service", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	router := routes.NewRouter(cfg, logg,
		routes.Dependencies{
			DB:           dbClient,
			Redis:        redisClient,
			HTTPMetrics:  httpMetrics,
			PromRegistry: registry,
		},
		routes.Services{
			Stores:    storesService,
			Products:  productsService,
			Inventory: inventoryService,
			Pricing:   pricingService,
			Cart:      cartService,
			Checkout:  checkoutService,
			Orders:    ordersService,
			Payments:  paymentsService,
		},
	)

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnError(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
