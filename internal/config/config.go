// Package config loads weatherdash configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when OPENWEATHER_API_KEY is not set.
var ErrMissingAPIKey = errors.New("OPENWEATHER_API_KEY is required")

// Config holds process-wide configuration. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Environment is the deployment environment (development, production, ...).
	Environment string

	// OpenWeatherAPIKey is the upstream provider credential.
	// Never expose it to clients.
	OpenWeatherAPIKey string

	// OpenWeatherBaseURL overrides the upstream base URL (optional).
	OpenWeatherBaseURL string

	// UpstreamTimeout bounds a single upstream call.
	UpstreamTimeout time.Duration

	// OTelEnabled turns on OTLP export of traces and metrics.
	OTelEnabled bool

	// OTLPEndpoint is the collector gRPC endpoint.
	OTLPEndpoint string

	// RequireTLS rejects plain-HTTP requests forwarded by a load balancer.
	RequireTLS bool

	// AllowedOrigins is the CORS allow list for the proxy endpoint.
	AllowedOrigins []string

	// LogLevel is a zerolog level name.
	LogLevel string

	// DashboardProxyURL points the dashboard at a remote proxy endpoint.
	// Empty means the dashboard calls the weather service in-process.
	DashboardProxyURL string
}

// Load reads an optional .env file and then the process environment.
// It fails when the provider credential is absent.
func Load() (Config, error) {
	// A missing .env file is fine; real deployments use the environment.
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("APP_PORT", "8080"),
		Environment:        getEnv("APP_ENV", "development"),
		OpenWeatherAPIKey:  strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY")),
		OpenWeatherBaseURL: os.Getenv("OPENWEATHER_BASE_URL"),
		UpstreamTimeout:    10 * time.Second,
		OTelEnabled:        os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		RequireTLS:         os.Getenv("REQUIRE_TLS") == "true",
		AllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DashboardProxyURL:  os.Getenv("DASHBOARD_PROXY_URL"),
	}

	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid UPSTREAM_TIMEOUT %q", v)
		}
		cfg.UpstreamTimeout = d
	}

	if cfg.OpenWeatherAPIKey == "" {
		return cfg, ErrMissingAPIKey
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
