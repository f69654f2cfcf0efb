package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/elegantjewelry/jewelbox-backend/api/routes"
	"github.com/elegantjewelry/jewelbox-backend/internal/auth"
	cartsvc "github.com/elegantjewelry/jewelbox-backend/internal/cart"
	checkoutsvc "github.com/elegantjewelry/jewelbox-backend/internal/checkout"
	couponsvc "github.com/elegantjewelry/jewelbox-backend/internal/coupons"
	customersvc "github.com/elegantjewelry/jewelbox-backend/internal/customers"
	ordersvc "github.com/elegantjewelry/jewelbox-backend/internal/orders"
	productsvc "github.com/elegantjewelry/jewelbox-backend/internal/products"
	"github.com/elegantjewelry/jewelbox-backend/internal/users"
	"github.com/elegantjewelry/jewelbox-backend/pkg/auth/session"
	"github.com/elegantjewelry/jewelbox-backend/pkg/config"
	"github.com/elegantjewelry/jewelbox-backend/pkg/db"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
	"github.com/elegantjewelry/jewelbox-backend/pkg/metrics"
	"github.com/elegantjewelry/jewelbox-backend/pkg/migrate"
	"github.com/elegantjewelry/jewelbox-backend/pkg/outbox"
	"github.com/elegantjewelry/jewelbox-backend/pkg/redis"
	"github.com/elegantjewelry/jewelbox-backend/pkg/stripe"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	if _, err := stripe.NewClient(context.Background(), cfg.Stripe, logg); err != nil {
		if cfg.App.IsProd() {
			logg.Error(context.Background(), "failed to initialize stripe", err)
			os.Exit(1)
		}
		logg.Warn(context.Background(), "stripe not configured, card payments will fail at submit")
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)
	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	productRepo := productsvc.NewRepository(dbClient.DB())
	productService, err := productsvc.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartRepo := cartsvc.NewRepository(dbClient.DB())
	cartService, err := cartsvc.NewService(cartRepo, productRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	couponRepo := couponsvc.NewRepository(dbClient.DB())
	couponService, err := couponsvc.NewService(couponRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	orderRepo := ordersvc.NewRepository(dbClient.DB())
	orderService, err := ordersvc.NewService(orderRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	customerService, err := customersvc.NewService(customersvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	checkoutStore, err := checkoutsvc.NewStore(redisClient, cfg.Checkout.SessionTTL, cfg.Checkout.SubmitLockTTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout store", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.Deps{
		Store:      checkoutStore,
		Cart:       cartService,
		CartRepo:   cartRepo,
		Coupons:    couponService,
		CouponRepo: couponRepo,
		Products:   productRepo,
		Orders:     orderRepo,
		Tx:         dbClient,
		Events:     outboxService,
		Payments:   checkoutsvc.NewStripeProcessor(),
		Metrics:    checkoutMetrics,
		Logger:     logg,
		Checkout:   cfg.Checkout,
		StoreCfg:   cfg.Store,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			HTTPMetrics:  httpMetrics,
			DB:           dbClient,
			Redis:        redisClient,
			Sessions:     sessionManager,
			AuthService:  authService,
			Register:     registerService,
			Products:     productService,
			Cart:         cartService,
			Coupons:      couponService,
			Checkout:     checkoutService,
			Orders:       orderService,
			Customers:    customerService,
			MetricsRoute: true,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
