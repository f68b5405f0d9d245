// Package dashboard holds the weather dashboard view: location resolution,
// fetch cycles and HTML rendering.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/weatherdash/weatherdash/internal/weather"
)

// Fetcher retrieves current weather through the proxy.
type Fetcher interface {
	Fetch(ctx context.Context, q weather.Query) (*weather.Result, error)
}

// FetchError is a failed fetch with the proxy's status and message.
type FetchError struct {
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("weather fetch failed (%d): %s", e.Status, e.Message)
}

// State is a snapshot of what the view shows.
type State struct {
	Result      *weather.Result
	Loading     bool
	Error       string
	Locating    bool
	LocateError string
}

// View owns the dashboard state. Fetch cycles are numbered; when a newer
// cycle starts, the outcome of an older one is dropped on arrival.
type View struct {
	fetcher Fetcher
	logger  zerolog.Logger

	mu    sync.Mutex
	state State
	seq   uint64
}

// NewView creates a view that is resolving the client location.
func NewView(fetcher Fetcher, logger zerolog.Logger) *View {
	return &View{
		fetcher: fetcher,
		logger:  logger,
		state:   State{Locating: true},
	}
}

// State returns a copy of the current state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// ResolveLocation runs the once-per-page location cycle. On success it
// fetches weather for the position; on failure it records a message and
// leaves manual entry to the user. ErrLocationPending keeps the view in the
// locating state.
func (v *View) ResolveLocation(ctx context.Context, loc Locator) {
	if loc == nil {
		v.finishLocating(MessageUnsupported)
		return
	}

	pos, err := loc.Locate(ctx)
	if err != nil {
		if errors.Is(err, ErrLocationPending) {
			return
		}
		v.finishLocating(locateMessage(err))
		return
	}

	defer v.finishLocating("")
	v.fetch(ctx, weather.CoordinateQuery{Lat: pos.Lat, Lon: pos.Lon})
}

// SearchCity fetches weather for a user-entered city. It does not depend
// on the location cycle.
func (v *View) SearchCity(ctx context.Context, city string) {
	var q weather.Query
	if name := strings.TrimSpace(city); name != "" {
		q = weather.CityQuery{Name: name}
	}
	v.fetch(ctx, q)
}

// SkipLocation ends the location cycle without a message. Used when the
// user has already chosen a city.
func (v *View) SkipLocation() {
	v.finishLocating("")
}

func (v *View) finishLocating(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Locating = false
	v.state.LocateError = message
}

func (v *View) fetch(ctx context.Context, q weather.Query) {
	v.mu.Lock()
	v.seq++
	cycle := v.seq
	v.state.Loading = true
	v.state.Error = ""
	v.state.Result = nil
	v.mu.Unlock()

	result, err := v.callFetcher(ctx, q)

	v.mu.Lock()
	defer v.mu.Unlock()

	if cycle != v.seq {
		v.logger.Debug().
			Uint64("cycle", cycle).
			Uint64("current", v.seq).
			Msg("discarding superseded weather fetch")
		return
	}

	if err != nil {
		v.state.Error = fetchMessage(err)
	} else {
		v.state.Result = result
	}
	v.state.Loading = false
}

func (v *View) callFetcher(ctx context.Context, q weather.Query) (result *weather.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error().Interface("panic", r).Msg("weather fetcher panicked")
			result, err = nil, fmt.Errorf("fetcher panic: %v", r)
		}
	}()

	if v.fetcher == nil {
		return nil, errors.New("no fetcher configured")
	}
	return v.fetcher.Fetch(ctx, q)
}

func fetchMessage(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return weather.MessageUnavailable
}

func locateMessage(err error) string {
	var ge *GeolocationError
	switch {
	case errors.As(err, &ge):
		return GeolocationMessage(ge.Code)
	case errors.Is(err, ErrGeolocationUnsupported):
		return MessageUnsupported
	default:
		return GeolocationMessage(0)
	}
}
