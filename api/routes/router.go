package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/schoolkart/storefront-backend/api/controllers"
	"github.com/schoolkart/storefront-backend/api/middleware"
	"github.com/schoolkart/storefront-backend/internal/address"
	"github.com/schoolkart/storefront-backend/internal/auth"
	"github.com/schoolkart/storefront-backend/internal/cart"
	"github.com/schoolkart/storefront-backend/internal/catalog"
	checkoutsvc "github.com/schoolkart/storefront-backend/internal/checkout"
	"github.com/schoolkart/storefront-backend/internal/orders"
	"github.com/schoolkart/storefront-backend/internal/users"
	"github.com/schoolkart/storefront-backend/pkg/auth/session"
	"github.com/schoolkart/storefront-backend/pkg/config"
	"github.com/schoolkart/storefront-backend/pkg/db"
	"github.com/schoolkart/storefront-backend/pkg/enums"
	"github.com/schoolkart/storefront-backend/pkg/logger"
	"github.com/schoolkart/storefront-backend/pkg/metrics"
	"github.com/schoolkart/storefront-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer

	AuthService     auth.Service
	UsersService    users.Service
	CatalogService  catalog.Service
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
	AddressService  address.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	// A typed-nil *redis.Client must not reach the idempotency middleware as a
	// non-nil interface.
	var idemStore redis.IdempotencyStore
	if deps.Redis != nil {
		idemStore = deps.Redis
	}

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
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		// Catalog reads are public; OptionalAuth only feeds the privileged
		// include_inactive toggle.
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))
		r.Get("/products", controllers.CatalogProducts(deps.CatalogService, deps.UsersService, logg))
		r.Get("/products/{productId}", controllers.CatalogProductDetail(deps.CatalogService, logg))
		r.Get("/categories", controllers.CatalogCategories(deps.CatalogService, logg))
		r.Get("/schools", controllers.CatalogSchools(deps.CatalogService, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Get("/", controllers.CartFetch(deps.CartService, logg))
		r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
		r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.CartService, logg))
		r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.CartService, logg))
		r.Delete("/", controllers.CartClear(deps.CartService, logg))
	})

	// Checkout and payment endpoints accept guests, so they run under
	// OptionalAuth with idempotency keys guarding the money-moving routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Post("/api/v1/checkout", controllers.CheckoutCreate(deps.CheckoutService, logg))
		r.Post("/api/v1/orders/{orderId}/payment", controllers.PaymentInitiate(deps.OrdersService, logg))
		r.Post("/api/v1/orders/{orderId}/payment/failure", controllers.PaymentFailure(deps.OrdersService, logg))
		r.Post("/api/v1/payments/callback", controllers.PaymentCallback(deps.OrdersService, logg))
		r.Post("/api/v1/orders/{orderId}/cancel", controllers.OrderCancel(deps.CheckoutService, deps.UsersService, logg))
		r.Get("/api/v1/orders/{orderId}", controllers.OrderDetail(deps.OrdersService, deps.UsersService, logg))
	})

	r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
		Get("/api/v1/orders", controllers.OrdersList(deps.OrdersService, logg))

	r.Route("/api/v1/addresses", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(idemStore, logg))
		r.Get("/", controllers.AddressesList(deps.AddressService, logg))
		r.Post("/", controllers.AddressCreate(deps.AddressService, logg))
		r.Put("/{addressId}", controllers.AddressUpdate(deps.AddressService, logg))
		r.Delete("/{addressId}", controllers.AddressDelete(deps.AddressService, logg))
		r.Post("/{addressId}/default", controllers.AddressSetDefault(deps.AddressService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRoles(deps.UsersService, logg, enums.UserRoleAdmin, enums.UserRoleManager))
		r.Use(middleware.Idempotency(idemStore, logg))
		r.Get("/orders", controllers.AdminOrdersList(deps.OrdersService, logg))
		r.Get("/orders/{orderId}", controllers.OrderDetail(deps.OrdersService, deps.UsersService, logg))
		r.Get("/users", controllers.AdminUsersList(deps.UsersService, logg))
		// Role changes are admin-only; managers keep read access above.
		r.With(middleware.RequireRoles(deps.UsersService, logg, enums.UserRoleAdmin)).
			Post("/users/{userId}/role", controllers.AdminUserRoleUpdate(deps.UsersService, logg))
	})

	r.Route("/api/warehouse/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRoles(deps.UsersService, logg, enums.UserRoleWarehouse, enums.UserRoleAdmin, enums.UserRoleManager))
		r.Use(middleware.Idempotency(idemStore, logg))
		r.Post("/orders/{orderId}/status", controllers.OrderStatusUpdate(deps.OrdersService, deps.UsersService, logg))
	})

	return r
}
