/*
server.go - HTTP router and middleware configuration

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from proxy headers, only with TrustProxy
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. Headers:    nosniff / frame denial on every response
  6. CORS:       Cross-origin requests for a browser frontend

Calculation routes are additionally rate limited per client.
*/
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures the outer HTTP surface
type RouterOptions struct {
	AllowedOrigins []string

	// Requests per client per minute on calculation routes; 0 disables limiting
	RateLimit int

	// Limiter overrides RateLimit when set
	Limiter *RateLimiter

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers; otherwise
	// clients choose their own rate-limit bucket.
	TrustProxy bool
}

// DefaultRouterOptions mirrors a local frontend setup
func DefaultRouterOptions() RouterOptions {
	return RouterOptions{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		RateLimit:      30,
	}
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))
	r.Use(middleware.SetHeader("X-Frame-Options", "DENY"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	limiter := opts.Limiter
	if limiter == nil && opts.RateLimit > 0 {
		limiter = NewRateLimiter(opts.RateLimit, time.Minute)
	}

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Post("/calculateTax", h.CalculateTax)
			r.Post("/tax/download-report", h.DownloadReport)
			r.Post("/breakeven", h.BreakEven)
		})

		r.Route("/slabs", func(r chi.Router) {
			r.Get("/", h.ListYears)
			r.Get("/{year}", h.GetSlabs)
		})
	})

	return r
}
