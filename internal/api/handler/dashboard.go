package handler

import (
	"bytes"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/weatherdash/weatherdash/internal/api/middleware"
	"github.com/weatherdash/weatherdash/internal/api/response"
	"github.com/weatherdash/weatherdash/internal/dashboard"
)

// DashboardHandler serves the dashboard page and its static assets.
type DashboardHandler struct {
	fetcher dashboard.Fetcher
	logger  zerolog.Logger
	static  http.Handler
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(fetcher dashboard.Fetcher, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		fetcher: fetcher,
		logger:  logger,
		static:  http.StripPrefix("/static/", http.FileServer(http.FS(dashboard.Static()))),
	}
}

// Page handles GET /.
//
// A city parameter runs a manual search. Otherwise the page runs the location
// cycle from the geolocation outcome the browser script encoded in the query
// (lat+lon, geo_error or geo=unsupported); with no outcome yet the page is
// rendered in the locating state and the script takes over.
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	logger := h.logger.With().Str("request_id", middleware.GetRequestID(r.Context())).Logger()

	view := dashboard.NewView(h.fetcher, logger)
	city := values.Get("city")
	if values.Has("city") {
		view.SkipLocation()
		view.SearchCity(r.Context(), city)
	} else {
		view.ResolveLocation(r.Context(), dashboard.NewRequestLocator(values))
	}

	var buf bytes.Buffer
	if err := dashboard.Render(&buf, dashboard.NewPage(view.State(), city)); err != nil {
		logger.Error().Err(err).Msg("failed to render dashboard")
		response.Error(w, r, http.StatusInternalServerError, "Failed to render page")
		return
	}

	response.HTML(w, r, http.StatusOK, buf.Bytes())
}

// Static handles GET /static/*.
func (h *DashboardHandler) Static(w http.ResponseWriter, r *http.Request) {
	h.static.ServeHTTP(w, r)
}
