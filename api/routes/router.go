package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elegantjewelry/jewelbox-backend/api/controllers"
	"github.com/elegantjewelry/jewelbox-backend/api/middleware"
	"github.com/elegantjewelry/jewelbox-backend/internal/auth"
	cartsvc "github.com/elegantjewelry/jewelbox-backend/internal/cart"
	checkoutsvc "github.com/elegantjewelry/jewelbox-backend/internal/checkout"
	couponsvc "github.com/elegantjewelry/jewelbox-backend/internal/coupons"
	customersvc "github.com/elegantjewelry/jewelbox-backend/internal/customers"
	ordersvc "github.com/elegantjewelry/jewelbox-backend/internal/orders"
	productsvc "github.com/elegantjewelry/jewelbox-backend/internal/products"
	"github.com/elegantjewelry/jewelbox-backend/pkg/auth/session"
	"github.com/elegantjewelry/jewelbox-backend/pkg/config"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
	"github.com/elegantjewelry/jewelbox-backend/pkg/metrics"
	"github.com/elegantjewelry/jewelbox-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs wired in.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	HTTPMetrics  *metrics.HTTPMetrics
	DB           controllers.Pinger
	Redis        *redis.Client
	Sessions     session.AccessSessionChecker
	AuthService  auth.Service
	Register     auth.RegisterService
	Products     productsvc.Service
	Cart         cartsvc.Service
	Coupons      couponsvc.Service
	Checkout     checkoutsvc.Service
	Orders       ordersvc.Service
	Customers    customersvc.Service
	MetricsRoute bool
}

// NewRouter assembles the full route tree with middleware applied per group.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": d.DB,
			"redis":    d.Redis,
		}))
	})

	if d.MetricsRoute {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(d.Products, logg))
		r.Get("/{slug}", controllers.ProductDetail(d.Products, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.Register, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(d.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AdminAuthLogin(d.AuthService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(d.Cart, d.Coupons, cfg.Store, logg))
			r.Post("/", controllers.CartAddItem(d.Cart, logg))
			r.Delete("/", controllers.CartClear(d.Cart, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(d.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(d.Cart, logg))
			r.Post("/coupon", controllers.CheckoutApplyCoupon(d.Checkout, logg))
			r.Delete("/coupon", controllers.CheckoutRemoveCoupon(d.Checkout, logg))
		})

		r.Route("/v1/checkout", func(r chi.Router) {
			r.Post("/start", controllers.CheckoutStart(d.Checkout, logg))
			r.Get("/", controllers.CheckoutState(d.Checkout, logg))
			r.Post("/shipping", controllers.CheckoutShipping(d.Checkout, logg))
			r.Post("/payment", controllers.CheckoutPayment(d.Checkout, logg))
			r.Post("/navigate", controllers.CheckoutNavigate(d.Checkout, logg))
			r.Post("/submit", controllers.CheckoutSubmit(d.Checkout, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(d.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(d.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(d.Orders, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireStaff(logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductsList(d.Products, logg))
			r.Post("/", controllers.AdminProductCreate(d.Products, logg))
			r.Get("/{productId}", controllers.AdminProductDetail(d.Products, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(d.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(d.Products, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(d.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(d.Orders, logg))
			r.Post("/{orderId}/status", controllers.AdminOrderUpdateStatus(d.Orders, logg))
		})

		r.Route("/v1/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminCustomersList(d.Customers, logg))
			r.Get("/{customerId}", controllers.AdminCustomerDetail(d.Customers, logg))
			r.Post("/{customerId}/active", controllers.AdminCustomerSetActive(d.Customers, logg))
		})

		r.Route("/v1/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminCouponsList(d.Coupons, logg))
			r.Post("/", controllers.AdminCouponCreate(d.Coupons, logg))
			r.Patch("/{couponId}", controllers.AdminCouponUpdate(d.Coupons, logg))
			r.Delete("/{couponId}", controllers.AdminCouponDelete(d.Coupons, logg))
		})
	})

	return r
}
