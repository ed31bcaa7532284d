package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libreria-labs/libreria-backend/api/controllers"
	"github.com/libreria-labs/libreria-backend/api/middleware"
	"github.com/libreria-labs/libreria-backend/internal/accounts"
	"github.com/libreria-labs/libreria-backend/internal/cart"
	"github.com/libreria-labs/libreria-backend/internal/catalog"
	"github.com/libreria-labs/libreria-backend/internal/invoices"
	"github.com/libreria-labs/libreria-backend/pkg/auth/session"
	"github.com/libreria-labs/libreria-backend/pkg/config"
	"github.com/libreria-labs/libreria-backend/pkg/enums"
	"github.com/libreria-labs/libreria-backend/pkg/logger"
	"github.com/libreria-labs/libreria-backend/pkg/metrics"
	"github.com/libreria-labs/libreria-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              controllers.Pinger
	Redis           *redis.Client
	SessionVerifier session.AccessSessionChecker
	Accounts        accounts.Service
	Catalog         catalog.Service
	Cart            cart.Service
	Invoices        invoices.Service
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsHandler  http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Route("/books", func(r chi.Router) {
			r.Get("/", controllers.BookList(deps.Catalog, logg))
			r.Get("/{bookId}", controllers.BookGet(deps.Catalog, logg))
		})
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Accounts, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Accounts, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Accounts, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionVerifier, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Post("/v1/auth/logout", controllers.AuthLogout(deps.Accounts, logg))
		r.Get("/v1/account/me", controllers.AccountMe(deps.Accounts, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCartAccess(logg))

			r.Route("/v1/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Put("/items", controllers.CartSetItemQuantity(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
			})
			r.Post("/v1/checkout", controllers.Checkout(deps.Invoices, logg))
		})

		r.Route("/v1/invoices", func(r chi.Router) {
			r.Get("/", controllers.InvoiceList(deps.Invoices, logg))
			r.Get("/{invoiceId}", controllers.InvoiceGet(deps.Invoices, logg))
			r.Delete("/{invoiceId}", controllers.InvoiceRemove(deps.Invoices, logg))
		})

		r.Route("/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.AccountRoleAdmin, logg))

			r.Get("/ping", controllers.AdminPing())
			r.Post("/accounts", controllers.AdminCreateAccount(deps.Accounts, logg))
			r.Route("/books", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateBook(deps.Catalog, logg))
				r.Patch("/{bookId}", controllers.AdminUpdateBook(deps.Catalog, logg))
				r.Delete("/{bookId}", controllers.AdminDeleteBook(deps.Catalog, logg))
			})
		})
	})

	return r
}
