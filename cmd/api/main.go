package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pukpuklouis/blackliving-backend/api/controllers"
	"github.com/pukpuklouis/blackliving-backend/api/routes"
	apptsvc "github.com/pukpuklouis/blackliving-backend/internal/appointments"
	authsvc "github.com/pukpuklouis/blackliving-backend/internal/auth"
	cartsvc "github.com/pukpuklouis/blackliving-backend/internal/cart"
	ordersvc "github.com/pukpuklouis/blackliving-backend/internal/orders"
	paymentsvc "github.com/pukpuklouis/blackliving-backend/internal/payment"
	productsvc "github.com/pukpuklouis/blackliving-backend/internal/products"
	settingsvc "github.com/pukpuklouis/blackliving-backend/internal/settings"
	"github.com/pukpuklouis/blackliving-backend/pkg/config"
	"github.com/pukpuklouis/blackliving-backend/pkg/db"
	"github.com/pukpuklouis/blackliving-backend/pkg/gomypay"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
	"github.com/pukpuklouis/blackliving-backend/pkg/metrics"
	"github.com/pukpuklouis/blackliving-backend/pkg/migrate"
	"github.com/pukpuklouis/blackliving-backend/pkg/redis"
)

// cartClearAdapter lets the order service empty a session cart without
// caring about the snapshot the cart service hands back.
type cartClearAdapter struct {
	carts cartsvc.Service
}

func (a cartClearAdapter) ClearItems(ctx context.Context, token string) error {
	_, err := a.carts.Clear(ctx, token)
	return err
}

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

	promRegistry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	settingsService, err := settingsvc.NewService(settingsvc.NewRepository(dbClient.DB()), redisClient, cfg.Cache.SettingsTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	productsService, err := productsvc.NewService(productsvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	cartStore, err := cartsvc.NewSessionStore(redisClient, cfg.Cart.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartStore, productsService, settingsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	gomypayClient, err := gomypay.NewClient(cfg.Gomypay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create gomypay client", err)
		os.Exit(1)
	}

	ordersRepo := ordersvc.NewRepository(dbClient.DB())

	paymentService, err := paymentsvc.NewService(paymentsvc.NewRepository(dbClient.DB()), ordersRepo, gomypayClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersRepo, dbClient, productsService, settingsService, paymentService, cartClearAdapter{carts: cartService}, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	appointmentService, err := apptsvc.NewService(apptsvc.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create appointment service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.NewRepository(dbClient.DB()), cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			Gatherer:    promRegistry,
			HTTPMetrics: httpMetrics,
			ReadyChecks: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			Cache: redisClient,

			Products:     productsService,
			Cart:         cartService,
			Orders:       orderService,
			Payments:     paymentService,
			Settings:     settingsService,
			Appointments: appointmentService,
			Auth:         authService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
