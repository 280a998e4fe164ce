// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sharooque7/logistic/internal/services"
)

type Config struct {
	Port            string
	DatabaseURL     string
	RedisURL        string
	MetricsCacheTTL time.Duration
	LogLevel        string
	CORSOrigins     []string
	StationPolicy   services.StationPolicy
	SeedRoutesPath  string
	SeedActualPath  string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("METRICS_CACHE_TTL", "10m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("STATION_POLICY", string(services.StationPolicyReject))
	v.SetDefault("SEED_ROUTES_PATH", "data/seeds/routes.json")
	v.SetDefault("SEED_ACTUAL_PATH", "data/seeds/actual_sequences.json")
	return v
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := newViper()

	policy, err := services.ParseStationPolicy(v.GetString("STATION_POLICY"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	ttl, err := time.ParseDuration(strings.TrimSpace(v.GetString("METRICS_CACHE_TTL")))
	if err != nil {
		return Config{}, fmt.Errorf("load config: METRICS_CACHE_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, errors.New("load config: METRICS_CACHE_TTL must be positive")
	}

	cfg := Config{
		Port:            strings.TrimSpace(v.GetString("PORT")),
		DatabaseURL:     strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisURL:        strings.TrimSpace(v.GetString("REDIS_URL")),
		MetricsCacheTTL: ttl,
		LogLevel:        strings.TrimSpace(v.GetString("LOG_LEVEL")),
		CORSOrigins:     splitCSV(v.GetString("CORS_ORIGINS")),
		StationPolicy:   policy,
		SeedRoutesPath:  v.GetString("SEED_ROUTES_PATH"),
		SeedActualPath:  v.GetString("SEED_ACTUAL_PATH"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("load config: DATABASE_URL is required")
	}
	return cfg, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
