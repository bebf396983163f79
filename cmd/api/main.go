package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/minimalstore/storefront-api/api/routes"
	"github.com/minimalstore/storefront-api/internal/cart"
	"github.com/minimalstore/storefront-api/internal/notifications"
	"github.com/minimalstore/storefront-api/internal/orders"
	"github.com/minimalstore/storefront-api/internal/payments"
	"github.com/minimalstore/storefront-api/internal/pricing"
	"github.com/minimalstore/storefront-api/internal/products"
	"github.com/minimalstore/storefront-api/internal/stock"
	"github.com/minimalstore/storefront-api/internal/users"
	stripewebhook "github.com/minimalstore/storefront-api/internal/webhooks/stripe"
	"github.com/minimalstore/storefront-api/internal/wishlist"
	"github.com/minimalstore/storefront-api/pkg/config"
	"github.com/minimalstore/storefront-api/pkg/db"
	"github.com/minimalstore/storefront-api/pkg/email"
	"github.com/minimalstore/storefront-api/pkg/enums"
	"github.com/minimalstore/storefront-api/pkg/logger"
	"github.com/minimalstore/storefront-api/pkg/metrics"
	"github.com/minimalstore/storefront-api/pkg/migrate"
	"github.com/minimalstore/storefront-api/pkg/redis"
	pkgstripe "github.com/minimalstore/storefront-api/pkg/stripe"
)

const stripeEventTTL = 24 * time.Hour

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

	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe client", err)
		os.Exit(1)
	}

	var dispatcher notifications.Dispatcher = notifications.Noop{}
	if cfg.Email.APIKey != "" {
		sender, err := email.NewClient(context.Background(), cfg.Email, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap email client", err)
			os.Exit(1)
		}
		mailer, err := notifications.NewMailer(sender, logg, cfg.External.EmailTimeout)
		if err != nil {
			logg.Error(context.Background(), "failed to create mailer", err)
			os.Exit(1)
		}
		dispatcher = mailer
	} else {
		logg.Warn(context.Background(), "email api key not set, notifications disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	categoryMatch := products.CategoryMatch(cfg.Catalog.CategoryMatch)
	productsRepo := products.NewRepository(dbClient.DB(), categoryMatch)
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	stockManager := stock.NewManager()

	productsSvc, err := products.NewService(productsRepo)
	requireService(logg, "products", err)

	cartSvc, err := cart.NewService(cartRepo, productsRepo)
	requireService(logg, "cart", err)

	usersSvc, err := users.NewService(usersRepo, dispatcher, logg)
	requireService(logg, "users", err)

	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlistRepo,
		Products:     productsRepo,
	})
	requireService(logg, "wishlist", err)

	calculator, err := pricing.NewCalculator(cfg.Pricing)
	requireService(logg, "pricing", err)

	gateway, err := payments.NewStripeGateway(stripeClient, cfg.External.StripeTimeout)
	requireService(logg, "payment gateway", err)

	paymentsSvc, err := payments.NewService(gateway, ordersRepo, logg)
	requireService(logg, "payments", err)

	currency, err := enums.ParseCurrency(cfg.Pricing.Currency)
	if err != nil {
		logg.Warn(context.Background(), "unrecognized currency configured, defaulting to USD")
		currency = enums.CurrencyUSD
	}

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:              ordersRepo,
		TransactionRunner: dbClient,
		CartRepo:          cartRepo,
		CartService:       cartSvc,
		Stock:             stockManager,
		Pricing:           calculator,
		Gateway:           gateway,
		Profiles:          usersRepo,
		Notifier:          dispatcher,
		Logger:            logg,
		Currency:          currency,
	})
	requireService(logg, "orders", err)

	webhookSvc, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		OrderRepo:         ordersRepo,
		TransactionRunner: dbClient,
		Stock:             stockManager,
		Profiles:          usersRepo,
		Notifier:          dispatcher,
		Logger:            logg,
	})
	requireService(logg, "stripe webhook", err)

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, stripeEventTTL, "stripe")
	requireService(logg, "stripe webhook guard", err)

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

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient,
			registry, httpMetrics,
			productsSvc, cartSvc, wishlistSvc, ordersSvc, paymentsSvc, usersSvc,
			stripeClient, webhookSvc, webhookGuard,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+name+" service", err)
		os.Exit(1)
	}
}
