// Package handler provides HTTP handlers for the weatherdash server.
package handler

import (
	"context"
	"net/http"

	"github.com/weatherdash/weatherdash/internal/api/response"
	"github.com/weatherdash/weatherdash/internal/weather"
)

// WeatherService is the part of weather.Service the handlers use.
type WeatherService interface {
	Ready() error
	Current(ctx context.Context, q weather.Query) (*weather.Result, error)
}

// WeatherHandler serves the weather proxy endpoint.
type WeatherHandler struct {
	svc WeatherService
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(svc WeatherService) *WeatherHandler {
	return &WeatherHandler{svc: svc}
}

// GetWeather handles GET /api/weather?city=... or ?lat=...&lon=...
//
// The credential check comes before parameter validation, and a request
// without a usable query never reaches the provider.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ready(); err != nil {
		writeWeatherError(w, r, err)
		return
	}

	q, err := weather.ParseQuery(r.URL.Query())
	if err != nil {
		writeWeatherError(w, r, err)
		return
	}

	result, err := h.svc.Current(r.Context(), q)
	if err != nil {
		writeWeatherError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

func writeWeatherError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := weather.Describe(err)
	response.Error(w, r, status, message)
}
