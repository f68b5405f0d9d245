package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Geolocation error codes reported by the browser.
const (
	GeoPermissionDenied    = 1
	GeoPositionUnavailable = 2
	GeoTimeout             = 3
)

// Geolocation messages shown to the user.
const (
	MessagePermissionDenied    = "Location access was denied. Enter a city to see the weather."
	MessagePositionUnavailable = "Location information is unavailable. Enter a city to see the weather."
	MessageTimeout             = "The request to get your location timed out. Enter a city to see the weather."
	MessageUnsupported         = "Geolocation is not supported by this browser. Enter a city to see the weather."
)

// ErrGeolocationUnsupported means the client has no geolocation capability.
var ErrGeolocationUnsupported = errors.New("geolocation not supported")

// ErrLocationPending means the client has not reported a position yet.
var ErrLocationPending = errors.New("location pending")

// Position is a resolved client location.
type Position struct {
	Lat float64
	Lon float64
}

// GeolocationError is a failed position request with its platform code.
type GeolocationError struct {
	Code int
}

func (e *GeolocationError) Error() string {
	return GeolocationMessage(e.Code)
}

// GeolocationMessage maps a platform error code to a user-facing message.
// Every code yields a non-empty message.
func GeolocationMessage(code int) string {
	switch code {
	case GeoPermissionDenied:
		return MessagePermissionDenied
	case GeoPositionUnavailable:
		return MessagePositionUnavailable
	case GeoTimeout:
		return MessageTimeout
	default:
		return fmt.Sprintf("An unknown error occurred while getting your location (code %d).", code)
	}
}

// Locator resolves the client position once.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Position, error)

// Locate calls f.
func (f LocatorFunc) Locate(ctx context.Context) (Position, error) {
	return f(ctx)
}

// RequestLocator reads the outcome of a browser geolocation request from
// page query parameters: lat+lon on success, geo_error=<code> on failure,
// geo=unsupported when the capability is absent.
type RequestLocator struct {
	values url.Values
}

// NewRequestLocator creates a locator over query parameters.
func NewRequestLocator(values url.Values) RequestLocator {
	return RequestLocator{values: values}
}

// Locate implements Locator.
func (l RequestLocator) Locate(_ context.Context) (Position, error) {
	if l.values.Get("geo") == "unsupported" {
		return Position{}, ErrGeolocationUnsupported
	}

	if raw := strings.TrimSpace(l.values.Get("geo_error")); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			code = 0
		}
		return Position{}, &GeolocationError{Code: code}
	}

	lat, latErr := strconv.ParseFloat(l.values.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(l.values.Get("lon"), 64)
	if latErr == nil && lonErr == nil {
		if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
			return Position{}, &GeolocationError{Code: GeoPositionUnavailable}
		}
		return Position{Lat: lat, Lon: lon}, nil
	}

	return Position{}, ErrLocationPending
}
