package router

import (
	"net/http"
	"time"

	"toppings-pos/internal/handler"
	"toppings-pos/internal/metrics"
	"toppings-pos/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Order   *handler.OrderHandler
	Health  *handler.HealthHandler
}

// Options configures the middleware chain.
type Options struct {
	RequestTimeout time.Duration
	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Check)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/products/{projectName}", h.Catalog.Get)

	mux.HandleFunc("GET /api/orders", h.Order.List)
	mux.HandleFunc("GET /api/orders/{orderId}", h.Order.GetByID)
	mux.HandleFunc("POST /api/orders", h.Order.Submit)
	mux.HandleFunc("POST /receive", h.Order.Submit)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> Metrics -> CORS -> RateLimit -> Timeout
	var handler http.Handler = metrics.TagRoute(mux)
	if opts.RequestTimeout > 0 {
		handler = middleware.Timeout(opts.RequestTimeout)(handler)
	}
	if opts.RateLimiter != nil {
		handler = opts.RateLimiter.Handler(handler)
	}
	handler = middleware.CORS(handler)
	handler = metrics.InstrumentHandler(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
