package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sharooque7/logistic/internal/adapters/cache"
	"github.com/sharooque7/logistic/internal/adapters/repositories"
	"github.com/sharooque7/logistic/internal/api"
	"github.com/sharooque7/logistic/internal/config"
	"github.com/sharooque7/logistic/internal/platform/db"
	"github.com/sharooque7/logistic/internal/platform/logger"
	"github.com/sharooque7/logistic/internal/ports"
	"github.com/sharooque7/logistic/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flush, err := logger.Install(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer flush()

	if err := run(cfg); err != nil {
		zap.L().Error("server exited", zap.Error(err))
		flush()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	zap.L().Info("database connection established")

	metricCache, closeCache, err := openMetricCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	repo := repositories.NewPostgresRouteRepository(pool)
	svc := services.NewRouteService(repo, metricCache, cfg.StationPolicy)
	router := api.NewRouter(svc, cfg.CORSOrigins, zap.L())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr), zap.String("station_policy", string(cfg.StationPolicy)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	zap.L().Info("server stopped")
	return nil
}

// openMetricCache returns a nil cache when REDIS_URL is unset.
func openMetricCache(ctx context.Context, cfg config.Config) (ports.MetricCache, func(), error) {
	if cfg.RedisURL == "" {
		zap.L().Info("metric cache disabled")
		return nil, func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("metric cache: parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("metric cache: ping: %w", err)
	}

	zap.L().Info("metric cache enabled", zap.Duration("ttl", cfg.MetricsCacheTTL))
	return cache.NewRedisMetricCache(client, cfg.MetricsCacheTTL), func() { _ = client.Close() }, nil
}
