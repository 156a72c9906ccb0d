package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamadpass/khodarji-backend/api/controllers"
	"github.com/hamadpass/khodarji-backend/api/middleware"
	"github.com/hamadpass/khodarji-backend/internal/assistant"
	"github.com/hamadpass/khodarji-backend/internal/catalog"
	"github.com/hamadpass/khodarji-backend/internal/orders"
	"github.com/hamadpass/khodarji-backend/internal/session"
	"github.com/hamadpass/khodarji-backend/pkg/config"
	"github.com/hamadpass/khodarji-backend/pkg/db"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
	"github.com/hamadpass/khodarji-backend/pkg/metrics"
	pkgredis "github.com/hamadpass/khodarji-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *pkgredis.Client
	SessionManager *session.Manager
	Catalog        catalog.Service
	Orders         orders.Service
	Assistant      assistant.Service
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	// A nil *Client must stay nil as an interface value so the disabled
	// checks in the middleware and health handler fire.
	var idemStore pkgredis.IdempotencyStore
	var limiterStore middleware.RateLimiterStore
	var redisPinger pkgredis.Pinger
	if deps.Redis != nil {
		idemStore = deps.Redis
		limiterStore = deps.Redis
		redisPinger = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsHandler, promhttp.HandlerOpts{}))
	}

	identifyPolicy := middleware.NewIdentifyRateLimitPolicy(
		"identify",
		cfg.IdentifyLimit.Window,
		cfg.IdentifyLimit.IPLimit,
		cfg.IdentifyLimit.PhoneLimit,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.JWT, logg))
		r.Use(middleware.Actor(deps.SessionManager, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionState(deps.SessionManager, logg))
			r.With(middleware.IdentifyRateLimit(identifyPolicy, limiterStore, logg)).
				Post("/identify", controllers.SessionIdentify(deps.SessionManager, logg))
			r.Post("/logout", controllers.SessionLogout(deps.SessionManager, logg))
			r.Patch("/view", controllers.SessionView(deps.SessionManager, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))
				r.Post("/", controllers.CreateProduct(deps.Catalog, logg))
				r.Put("/{productId}", controllers.UpdateProduct(deps.Catalog, logg))
				r.Delete("/{productId}", controllers.DeleteProduct(deps.Catalog, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/items", controllers.AddCartItem(deps.SessionManager, deps.Catalog, logg))
			r.Patch("/items/{productId}", controllers.UpdateCartItem(deps.SessionManager, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.SessionManager, logg))
			r.Patch("/panel", controllers.CartPanel(deps.SessionManager, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.SessionManager, deps.Orders, logg))
			r.Post("/", controllers.CreateOrder(deps.SessionManager, logg))
			r.With(middleware.RequireRole(enums.UserRoleAdmin.String(), logg)).
				Patch("/{orderId}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
		})

		r.Post("/assistant/chat", controllers.AssistantChat(deps.SessionManager, deps.Assistant, logg))
	})

	return r
}
