package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sharooque7/logistic/internal/adapters/repositories"
	"github.com/sharooque7/logistic/internal/config"
	"github.com/sharooque7/logistic/internal/platform/db"
	"github.com/sharooque7/logistic/internal/platform/logger"
)

const usage = `usage: dbtool <command> [file]

commands:
  migrate             apply pending schema migrations
  seed-routes [file]  load route metadata and stops (default SEED_ROUTES_PATH)
  seed-actual [file]  load recorded visiting orders (default SEED_ACTUAL_PATH)
  all                 migrate, seed-routes, seed-actual`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1], os.Args[2:]); err != nil {
		zap.L().Error("dbtool failed", zap.String("command", os.Args[1]), zap.Error(err))
		flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, cmd string, args []string) error {
	pathArg := func(fallback string) string {
		if len(args) > 0 && args[0] != "" {
			return args[0]
		}
		return fallback
	}

	switch cmd {
	case "migrate":
		return migrate(ctx, cfg.DatabaseURL)
	case "seed-routes":
		return seedRoutes(ctx, cfg.DatabaseURL, pathArg(cfg.SeedRoutesPath))
	case "seed-actual":
		return seedActual(ctx, cfg.DatabaseURL, pathArg(cfg.SeedActualPath))
	case "all":
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
		if err := seedRoutes(ctx, cfg.DatabaseURL, cfg.SeedRoutesPath); err != nil {
			return err
		}
		return seedActual(ctx, cfg.DatabaseURL, cfg.SeedActualPath)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func migrate(ctx context.Context, databaseURL string) error {
	zap.L().Info("applying migrations")
	sqlDB, err := db.Open(databaseURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB); err != nil {
		return err
	}
	zap.L().Info("schema ready")
	return nil
}

func seedRoutes(ctx context.Context, databaseURL, path string) error {
	pool, err := db.OpenPool(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	report, err := repositories.SeedRoutesFromJSON(ctx, pool, path)
	if err != nil {
		return err
	}
	zap.L().Info("routes seeded",
		zap.String("file", path),
		zap.Int("routes", report.Routes),
		zap.Int("stops", report.Stops),
	)
	return nil
}

func seedActual(ctx context.Context, databaseURL, path string) error {
	pool, err := db.OpenPool(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	report, err := repositories.SeedActualFromJSON(ctx, pool, path)
	if err != nil {
		return err
	}
	zap.L().Info("actual sequences seeded",
		zap.String("file", path),
		zap.Int("routes", report.Routes),
		zap.Int("stops", report.Stops),
		zap.Strings("skipped_routes", report.Skipped),
	)
	return nil
}
