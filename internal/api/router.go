// Package api exposes the query service over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/samarth-project/samarth/internal/config"
	"github.com/samarth-project/samarth/internal/service"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(svc *service.Service, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-Query-Id"},
		MaxAge:         300,
	}))

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 20
	}
	r.Use(rateLimit(rate.NewLimiter(rate.Limit(limit), burst)))

	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/query", handleQuery(svc))
		r.Get("/datasets", handleDatasets(svc))
		r.Get("/cache", handleCacheStatus(svc))
		r.Delete("/cache", handleCacheClear(svc))
	})

	return r
}

// rateLimit rejects requests over the shared server-wide limit with 429.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
