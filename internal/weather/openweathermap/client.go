// Package openweathermap implements weather.Provider against the
// OpenWeatherMap current weather API.
package openweathermap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/weatherdash/weatherdash/internal/provider/resilience"
	"github.com/weatherdash/weatherdash/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	maxBodyBytes = 1 << 20
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key.
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenWeatherMap API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a circuit-breaking client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// CurrentWeather fetches current weather by city name or coordinates.
func (c *Client) CurrentWeather(ctx context.Context, q weather.Query) (*weather.Result, error) {
	if !c.Configured() {
		return nil, weather.ErrNotConfigured
	}

	params := url.Values{}
	switch q := q.(type) {
	case weather.CoordinateQuery:
		params.Set("lat", strconv.FormatFloat(q.Lat, 'f', 6, 64))
		params.Set("lon", strconv.FormatFloat(q.Lon, 'f', 6, 64))
	case weather.CityQuery:
		params.Set("q", q.Name)
	default:
		return nil, weather.ErrQueryRequired
	}
	params.Set("units", "metric")
	params.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrProviderUnavailable, redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", weather.ErrProviderUnavailable, redact(err))
	}

	var owmResp currentWeatherResponse
	if err := json.Unmarshal(body, &owmResp); err != nil {
		c.logger.Debug().
			Int("http_status", resp.StatusCode).
			Msg("undecodable provider response")
		return nil, fmt.Errorf("%w: decoding response: %v", weather.ErrProviderUnavailable, err)
	}

	if owmResp.Cod.present {
		if owmResp.Cod.value != http.StatusOK {
			return nil, &weather.ProviderError{StatusCode: owmResp.Cod.value, Message: string(owmResp.Message)}
		}
	} else if resp.StatusCode >= 400 {
		return nil, &weather.ProviderError{StatusCode: resp.StatusCode, Message: string(owmResp.Message)}
	}

	return toResult(&owmResp), nil
}

// redact drops the request URL from transport errors; it carries the key.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

// toResult converts an OpenWeatherMap response to the domain model.
func toResult(resp *currentWeatherResponse) *weather.Result {
	result := &weather.Result{
		LocationName:    resp.Name,
		TemperatureC:    resp.Main.Temp,
		FeelsLikeC:      resp.Main.FeelsLike,
		HumidityPercent: resp.Main.Humidity,
		WindSpeedMs:     resp.Wind.Speed,
		Condition:       weather.ConditionUnknown,
	}

	if len(resp.Weather) > 0 {
		result.Condition = mapCondition(resp.Weather[0].Main)
		result.ConditionDescription = resp.Weather[0].Description
		result.ConditionIcon = resp.Weather[0].Icon
	}

	return result
}

// mapCondition maps OpenWeatherMap condition to domain condition.
func mapCondition(owmCondition string) weather.Condition {
	switch owmCondition {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionClouds
	case "Rain":
		return weather.ConditionRain
	case "Drizzle":
		return weather.ConditionDrizzle
	case "Thunderstorm":
		return weather.ConditionThunderstorm
	case "Snow":
		return weather.ConditionSnow
	case "Mist":
		return weather.ConditionMist
	case "Fog":
		return weather.ConditionFog
	case "Haze", "Dust", "Sand", "Ash", "Squall", "Tornado", "Smoke":
		return weather.ConditionHaze
	default:
		return weather.ConditionUnknown
	}
}

// statusCode is the "cod" field. OpenWeatherMap sends it as a number on
// success and often as a string ("404") on errors.
type statusCode struct {
	value   int
	present bool
}

func (s *statusCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if str == "" {
			return nil
		}
		v, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("cod %q: %w", str, err)
		}
		s.value, s.present = v, true
		return nil
	}

	var v json.Number
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n, err := v.Int64()
	if err != nil {
		return fmt.Errorf("cod %s: %w", v, err)
	}
	s.value, s.present = int(n), true
	return nil
}

// message is the "message" field; non-string values are ignored.
type message string

func (m *message) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*m = message(str)
	}
	return nil
}

// OpenWeatherMap API response structures.

type currentWeatherResponse struct {
	Cod     statusCode `json:"cod"`
	Message message    `json:"message"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}
