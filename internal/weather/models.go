package weather

import (
	"errors"
	"fmt"
	"net/http"
)

// Weather errors.
var (
	// ErrNotConfigured means the provider has no credential.
	ErrNotConfigured = errors.New("weather provider credential not configured")

	// ErrQueryRequired means neither a city nor a coordinate pair was given.
	ErrQueryRequired = errors.New("city or coordinates required")

	// ErrProviderUnavailable means the provider could not be reached or
	// answered without a usable body.
	ErrProviderUnavailable = errors.New("weather provider unavailable")
)

// Client-facing messages.
const (
	MessageNotConfigured = "Server misconfiguration: weather API key is not set"
	MessageQueryRequired = "City or latitude/longitude query parameters are required"
	MessageUnavailable   = "Failed to fetch weather data"
)

// Query selects a location. It is either a CityQuery or a CoordinateQuery;
// the unexported marker method keeps the set closed.
type Query interface {
	isQuery()
	String() string
}

// CityQuery looks weather up by place name.
type CityQuery struct {
	Name string
}

func (CityQuery) isQuery() {}

func (q CityQuery) String() string { return "city=" + q.Name }

// CoordinateQuery looks weather up by position.
type CoordinateQuery struct {
	Lat float64
	Lon float64
}

func (CoordinateQuery) isQuery() {}

func (q CoordinateQuery) String() string { return fmt.Sprintf("lat=%.4f,lon=%.4f", q.Lat, q.Lon) }

// Result is the normalized current weather for one location.
type Result struct {
	LocationName         string    `json:"locationName"`
	ConditionDescription string    `json:"conditionDescription"`
	ConditionIcon        string    `json:"conditionIcon"`
	Condition            Condition `json:"condition"`
	TemperatureC         float64   `json:"temperatureC"`
	FeelsLikeC           float64   `json:"feelsLikeC"`
	HumidityPercent      float64   `json:"humidityPercent"`
	WindSpeedMs          float64   `json:"windSpeedMs"`
}

// Condition is the general weather condition group.
type Condition string

const (
	ConditionClear        Condition = "CLEAR"
	ConditionClouds       Condition = "CLOUDS"
	ConditionRain         Condition = "RAIN"
	ConditionDrizzle      Condition = "DRIZZLE"
	ConditionThunderstorm Condition = "THUNDERSTORM"
	ConditionSnow         Condition = "SNOW"
	ConditionMist         Condition = "MIST"
	ConditionFog          Condition = "FOG"
	ConditionHaze         Condition = "HAZE"
	ConditionUnknown      Condition = "UNKNOWN"
)

// ProviderError is a non-success status reported inside the provider's
// response body.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Weather provider returned status %d", e.StatusCode)
	}
	return e.Message
}

// Describe maps an error from this package to the HTTP status and message
// shown to clients. Unknown errors are treated as provider unavailability.
func Describe(err error) (status int, message string) {
	var pe *ProviderError
	switch {
	case errors.As(err, &pe):
		status = pe.StatusCode
		// Codes net/http cannot write as a final status.
		if status < 200 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, pe.Error()
	case errors.Is(err, ErrQueryRequired):
		return http.StatusBadRequest, MessageQueryRequired
	case errors.Is(err, ErrNotConfigured):
		return http.StatusInternalServerError, MessageNotConfigured
	default:
		return http.StatusInternalServerError, MessageUnavailable
	}
}
