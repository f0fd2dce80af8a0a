package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cloo-solutions/movierec/internal/api"
	"github.com/cloo-solutions/movierec/internal/api/handlers"
	"github.com/cloo-solutions/movierec/internal/api/middleware"
)

type RouterConfig struct {
	ArtworkHandler *handlers.ArtworkHandler

	// Probe, when set, backs /health. A non-nil error answers 503.
	Probe func(ctx context.Context) error

	CORSOrigins        []string
	RateLimitPerMinute int
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Probe != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.Probe(ctx); err != nil {
				api.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
		}

		r.Route("/api/tmdb/movie", func(r chi.Router) {
			// An empty id still reaches the handler so it can answer 400
			r.Get("/", cfg.ArtworkHandler.Get)
			r.Get("/{id}", cfg.ArtworkHandler.Get)
		})
	})

	return r
}
