// Package api provides the HTTP surface of weatherdash: the weather proxy,
// the dashboard page and the operational endpoints.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/weatherdash/weatherdash/internal/api/handler"
	"github.com/weatherdash/weatherdash/internal/api/middleware"
	"github.com/weatherdash/weatherdash/internal/dashboard"
	"github.com/weatherdash/weatherdash/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// WeatherService backs the proxy endpoint and readiness.
	WeatherService handler.WeatherService

	// Fetcher backs the dashboard. Defaults to calling WeatherService
	// in-process.
	Fetcher dashboard.Fetcher

	// Registry exposes provider health on /v1/ops/status (optional).
	Registry *resilience.Registry

	// AllowedOrigins is the CORS allow list for /api. Defaults to "*".
	AllowedOrigins []string

	// RequireTLS rejects plain-HTTP forwarded requests.
	RequireTLS bool
}

// NewRouter creates a new chi router with all routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "weatherdash"
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = dashboard.ServiceFetcher{Lookup: cfg.WeatherService}
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement behind a load balancer

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.WeatherService, cfg.Registry)
	weatherHandler := handler.NewWeatherHandler(cfg.WeatherService)
	dashboardHandler := handler.NewDashboardHandler(fetcher, cfg.Logger)

	// Weather proxy, callable from other origins
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
		r.Use(middleware.SecurityHeaders(middleware.APIPolicy))
		r.Use(middleware.ContentTypeJSON)

		r.Get("/weather", weatherHandler.GetWeather)
	})

	// Ops endpoints
	r.Route("/v1/ops", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders(middleware.APIPolicy))
		r.Use(middleware.ContentTypeJSON)

		r.Get("/health", opsHandler.HealthCheck)
		r.Get("/ready", opsHandler.ReadinessCheck)
		r.Get("/status", opsHandler.SystemStatus)
	})

	// Dashboard page and its assets
	r.Group(func(r chi.Router) {
		r.Use(middleware.SecurityHeaders(middleware.DashboardPolicy))

		r.Get("/", dashboardHandler.Page)
		r.Get("/static/*", dashboardHandler.Static)
	})

	return r
}
