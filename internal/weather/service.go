// Package weather provides current weather lookups by city or coordinates.
package weather

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// CurrentWeather fetches current weather for the query with exactly one
	// upstream call.
	CurrentWeather(ctx context.Context, q Query) (*Result, error)

	// Configured reports whether the provider has its credential.
	Configured() bool

	// Name returns the provider name for logging.
	Name() string
}

// RequestRecorder records provider call metrics.
type RequestRecorder interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// OutcomeRecorder tracks provider health.
type OutcomeRecorder interface {
	RecordSuccess(name string)
	RecordFailure(name string, err error)
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Metrics records call duration and outcome (optional).
	Metrics RequestRecorder

	// Health tracks last success/failure per provider (optional).
	Health OutcomeRecorder
}

// Service looks up current weather. It does not cache or retry.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	metrics  RequestRecorder
	health   OutcomeRecorder
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		health:   cfg.Health,
	}
}

// Ready returns ErrNotConfigured when the provider lacks its credential.
func (s *Service) Ready() error {
	if s.provider == nil || !s.provider.Configured() {
		return ErrNotConfigured
	}
	return nil
}

// Current returns current weather for q.
func (s *Service) Current(ctx context.Context, q Query) (*Result, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQueryRequired
	}

	start := time.Now()
	result, err := s.provider.CurrentWeather(ctx, q)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordRequest(s.provider.Name(), "current_weather", elapsed, err)
	}

	if err != nil {
		s.recordFailure(q, err)
		return nil, err
	}

	if s.health != nil {
		s.health.RecordSuccess(s.provider.Name())
	}
	s.logger.Debug().
		Str("provider", s.provider.Name()).
		Str("query", q.String()).
		Dur("duration", elapsed).
		Msg("fetched current weather")

	return result, nil
}

func (s *Service) recordFailure(q Query, err error) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		// The provider answered; this is about the query, not provider health.
		s.logger.Warn().
			Str("provider", s.provider.Name()).
			Str("query", q.String()).
			Int("status", pe.StatusCode).
			Str("provider_message", pe.Message).
			Msg("provider rejected weather query")
		if s.health != nil {
			s.health.RecordSuccess(s.provider.Name())
		}
		return
	}

	s.logger.Error().Err(err).
		Str("provider", s.provider.Name()).
		Str("query", q.String()).
		Msg("failed to fetch weather")
	if s.health != nil {
		s.health.RecordFailure(s.provider.Name(), err)
	}
}
