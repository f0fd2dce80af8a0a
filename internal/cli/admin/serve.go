// Package admin holds the movierecd commands.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cloo-solutions/movierec/internal/api/handlers"
	"github.com/cloo-solutions/movierec/internal/cache"
	"github.com/cloo-solutions/movierec/internal/config"
	"github.com/cloo-solutions/movierec/internal/jobs"
	"github.com/cloo-solutions/movierec/internal/logging"
	"github.com/cloo-solutions/movierec/internal/server"
	"github.com/cloo-solutions/movierec/internal/service"
	"github.com/cloo-solutions/movierec/internal/telemetry"
	"github.com/cloo-solutions/movierec/internal/tmdb"
)

const shutdownTimeout = 30 * time.Second

var version = "dev"

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the artwork proxy",
		Long:  "Start the movierecd artwork proxy on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP(config.FlagPort, "p", "", "Port to listen on (overrides MOVIEREC_PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyFlags(cmd.Flags())

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.HasSentry() {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          version,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err == nil {
			defer shutdownTelemetry()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, sweeper, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	upstream := tmdb.NewClient(tmdb.Config{
		BaseURL: cfg.TMDBBaseURL,
		APIKey:  cfg.TMDBAPIKey,
		Timeout: cfg.Timeout,
		RPS:     cfg.TMDBRPS,
		Burst:   cfg.TMDBBurst,
	})
	if !cfg.HasTMDB() {
		logging.Warn().Msg("MOVIEREC_TMDB_API_KEY not set: artwork requests will fail")
	}

	artworkSvc := service.NewArtworkService(upstream, store, cfg.ArtworkCacheTTL)

	routerCfg := server.RouterConfig{
		ArtworkHandler:     handlers.NewArtworkHandler(artworkSvc),
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}
	if pinger, ok := store.(interface{ Ping(context.Context) error }); ok {
		routerCfg.Probe = pinger.Ping
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info().Str("port", cfg.Port).Str("cache", store.Name()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if sweeper != nil {
		worker := jobs.NewWorker(sweeper, cfg.CacheSweepInterval)
		g.Go(func() error {
			worker.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logging.Info().Msg("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logging.Info().Msg("server exited")
	return nil
}

// openCache picks Redis when configured and the bounded in-memory store
// otherwise. Only the in-memory store needs a sweeper.
func openCache(ctx context.Context, cfg *config.Config) (cache.Store, jobs.Job, error) {
	if cfg.HasRedis() {
		store, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logging.Info().Msg("connected to redis")
		return store, nil, nil
	}

	mem := cache.NewMemory(cfg.ArtworkCacheSize)
	if cfg.CacheSweepInterval <= 0 {
		return mem, nil, nil
	}
	return mem, jobs.NewCacheSweeper(mem), nil
}

// SetVersion records the build version reported to Sentry
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

