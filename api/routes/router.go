package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pukpuklouis/blackliving-backend/api/controllers"
	"github.com/pukpuklouis/blackliving-backend/api/middleware"
	apptsvc "github.com/pukpuklouis/blackliving-backend/internal/appointments"
	authsvc "github.com/pukpuklouis/blackliving-backend/internal/auth"
	cartsvc "github.com/pukpuklouis/blackliving-backend/internal/cart"
	ordersvc "github.com/pukpuklouis/blackliving-backend/internal/orders"
	paymentsvc "github.com/pukpuklouis/blackliving-backend/internal/payment"
	productsvc "github.com/pukpuklouis/blackliving-backend/internal/products"
	settingsvc "github.com/pukpuklouis/blackliving-backend/internal/settings"
	"github.com/pukpuklouis/blackliving-backend/pkg/config"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
	"github.com/pukpuklouis/blackliving-backend/pkg/metrics"
	"github.com/pukpuklouis/blackliving-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
	ReadyChecks map[string]controllers.Pinger
	Cache       redis.Store

	Products     productsvc.Service
	Cart         cartsvc.Service
	Orders       ordersvc.Service
	Payments     paymentsvc.Service
	Settings     settingsvc.Service
	Appointments apptsvc.Service
	Auth         authsvc.Service
}

// NewRouter wires the storefront and dashboard API.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)
	if p.HTTPMetrics != nil {
		r.Use(p.HTTPMetrics.Middleware)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.ReadyChecks))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	publicCache := func(next http.Handler) http.Handler { return next }
	if !cfg.Cache.DisableResponse && p.Cache != nil {
		publicCache = middleware.ResponseCache(p.Cache, cfg.Cache.PublicGetTTL, logg)
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(publicCache)
			r.Get("/products", controllers.ListProducts(p.Products, logg))
			r.Get("/products/{slug}", controllers.GetProductBySlug(p.Products, logg))
			r.Get("/settings/{key}", controllers.GetSetting(p.Settings, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(p.Cart, logg))
			r.Delete("/", controllers.ClearCart(p.Cart, logg))
			r.Post("/items", controllers.AddCartItem(p.Cart, logg))
			r.Put("/items", controllers.UpdateCartItem(p.Cart, logg))
			r.Delete("/items", controllers.RemoveCartItem(p.Cart, logg))
			r.Put("/checkout-info", controllers.SetCartCheckoutInfo(p.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.SubmitOrder(p.Orders, logg))
			r.Get("/{orderNo}", controllers.GetOrder(p.Orders, logg))
		})

		r.Route("/payment", func(r chi.Router) {
			r.Post("/initiate", controllers.InitiatePayment(p.Payments, logg))
			r.Post("/callback", controllers.PaymentCallback(p.Payments, logg))
		})

		r.Post("/appointments", controllers.CreateAppointment(p.Appointments, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(p.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWT, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(p.Orders, logg))
				r.Get("/{orderNo}", controllers.AdminGetOrder(p.Orders, logg))
				r.Patch("/{orderNo}/status", controllers.AdminUpdateOrderStatus(p.Orders, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(p.Products, logg))
				r.Post("/", controllers.AdminCreateProduct(p.Products, logg))
				r.Patch("/{id}", controllers.AdminUpdateProduct(p.Products, logg))
				r.Delete("/{id}", controllers.AdminDeleteProduct(p.Products, logg))
			})

			r.Put("/settings/{key}", controllers.UpdateSetting(p.Settings, logg))

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", controllers.AdminListAppointments(p.Appointments, logg))
				r.Patch("/{id}/status", controllers.AdminUpdateAppointmentStatus(p.Appointments, logg))
			})
		})
	})

	return r
}
