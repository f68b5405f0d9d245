package dashboard_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherdash/weatherdash/internal/dashboard"
	"github.com/weatherdash/weatherdash/internal/weather"
)

// fetcherFunc adapts a function to dashboard.Fetcher.
type fetcherFunc func(ctx context.Context, q weather.Query) (*weather.Result, error)

func (f fetcherFunc) Fetch(ctx context.Context, q weather.Query) (*weather.Result, error) {
	return f(ctx, q)
}

func seoul() *weather.Result {
	return &weather.Result{
		LocationName:         "Seoul",
		ConditionDescription: "clear sky",
		ConditionIcon:        "01d",
		TemperatureC:         10,
		FeelsLikeC:           8.5,
		HumidityPercent:      40,
		WindSpeedMs:          3.2,
	}
}

func positionLocator(lat, lon float64) dashboard.Locator {
	return dashboard.LocatorFunc(func(context.Context) (dashboard.Position, error) {
		return dashboard.Position{Lat: lat, Lon: lon}, nil
	})
}

func failingLocator(err error) dashboard.Locator {
	return dashboard.LocatorFunc(func(context.Context) (dashboard.Position, error) {
		return dashboard.Position{}, err
	})
}

func TestView_InitialState(t *testing.T) {
	view := dashboard.NewView(nil, zerolog.Nop())

	state := view.State()
	assert.True(t, state.Locating)
	assert.False(t, state.Loading)
	assert.Nil(t, state.Result)
}

func TestView_ResolveLocation_Success(t *testing.T) {
	var got weather.Query
	view := dashboard.NewView(fetcherFunc(func(_ context.Context, q weather.Query) (*weather.Result, error) {
		got = q
		return seoul(), nil
	}), zerolog.Nop())

	view.ResolveLocation(context.Background(), positionLocator(37.56, 126.97))

	assert.Equal(t, weather.CoordinateQuery{Lat: 37.56, Lon: 126.97}, got)
	state := view.State()
	assert.False(t, state.Locating)
	assert.Empty(t, state.LocateError)
	assert.False(t, state.Loading)
	require.NotNil(t, state.Result)
	assert.Equal(t, "Seoul", state.Result.LocationName)
}

func TestView_ResolveLocation_FetchFailureStillClearsLocating(t *testing.T) {
	view := dashboard.NewView(fetcherFunc(func(context.Context, weather.Query) (*weather.Result, error) {
		return nil, &dashboard.FetchError{Status: 401, Message: "Invalid API key"}
	}), zerolog.Nop())

	view.ResolveLocation(context.Background(), positionLocator(1, 2))

	state := view.State()
	assert.False(t, state.Locating)
	assert.False(t, state.Loading)
	assert.Equal(t, "Invalid API key", state.Error)
	assert.Nil(t, state.Result)
}

func TestView_ResolveLocation_Denied(t *testing.T) {
	calls := 0
	view := dashboard.NewView(fetcherFunc(func(context.Context, weather.Query) (*weather.Result, error) {
		calls++
		return seoul(), nil
	}), zerolog.Nop())

	view.ResolveLocation(context.Background(),
		failingLocator(&dashboard.GeolocationError{Code: dashboard.GeoPermissionDenied}))

	state := view.State()
	assert.False(t, state.Locating)
	assert.Equal(t, dashboard.MessagePermissionDenied, state.LocateError)
	assert.Zero(t, calls)

	// Manual entry still works.
	view.SearchCity(context.Background(), "Seoul")
	require.NotNil(t, view.State().Result)
	assert.Equal(t, 1, calls)
}

func TestView_ResolveLocation_Unsupported(t *testing.T) {
	view := dashboard.NewView(nil, zerolog.Nop())

	view.ResolveLocation(context.Background(), failingLocator(dashboard.ErrGeolocationUnsupported))
	assert.Equal(t, dashboard.MessageUnsupported, view.State().LocateError)

	nilLocatorView := dashboard.NewView(nil, zerolog.Nop())
	nilLocatorView.ResolveLocation(context.Background(), nil)
	assert.Equal(t, dashboard.MessageUnsupported, nilLocatorView.State().LocateError)
	assert.False(t, nilLocatorView.State().Locating)
}

func TestView_ResolveLocation_Pending(t *testing.T) {
	view := dashboard.NewView(nil, zerolog.Nop())

	view.ResolveLocation(context.Background(), failingLocator(dashboard.ErrLocationPending))

	state := view.State()
	assert.True(t, state.Locating)
	assert.Empty(t, state.LocateError)
}

func TestView_ResolveLocation_UnexpectedError(t *testing.T) {
	view := dashboard.NewView(nil, zerolog.Nop())

	view.ResolveLocation(context.Background(), failingLocator(errors.New("bridge down")))

	assert.Equal(t, dashboard.GeolocationMessage(0), view.State().LocateError)
}

func TestView_SearchCity_Messages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"proxy message", &dashboard.FetchError{Status: 404, Message: "city not found"}, "city not found"},
		{"empty proxy message", &dashboard.FetchError{Status: 500}, weather.MessageUnavailable},
		{"plain error", errors.New("connection reset"), weather.MessageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := dashboard.NewView(fetcherFunc(func(context.Context, weather.Query) (*weather.Result, error) {
				return nil, tt.err
			}), zerolog.Nop())

			view.SearchCity(context.Background(), "Atlantis")

			state := view.State()
			assert.Equal(t, tt.message, state.Error)
			assert.False(t, state.Loading)
			assert.Nil(t, state.Result)
		})
	}
}

func TestView_SearchCity_BlankSendsNoCity(t *testing.T) {
	var got weather.Query = weather.CityQuery{Name: "sentinel"}
	view := dashboard.NewView(fetcherFunc(func(_ context.Context, q weather.Query) (*weather.Result, error) {
		got = q
		return nil, &dashboard.FetchError{Status: 400, Message: weather.MessageQueryRequired}
	}), zerolog.Nop())

	view.SearchCity(context.Background(), "   ")

	assert.Nil(t, got)
	assert.Equal(t, weather.MessageQueryRequired, view.State().Error)
}

func TestView_FetchPanicClearsLoading(t *testing.T) {
	view := dashboard.NewView(fetcherFunc(func(context.Context, weather.Query) (*weather.Result, error) {
		panic("boom")
	}), zerolog.Nop())

	view.SearchCity(context.Background(), "Seoul")

	state := view.State()
	assert.False(t, state.Loading)
	assert.Equal(t, weather.MessageUnavailable, state.Error)
}

func TestView_NewFetchClearsPreviousResult(t *testing.T) {
	fail := false
	view := dashboard.NewView(fetcherFunc(func(context.Context, weather.Query) (*weather.Result, error) {
		if fail {
			return nil, &dashboard.FetchError{Status: 404, Message: "city not found"}
		}
		return seoul(), nil
	}), zerolog.Nop())

	view.SearchCity(context.Background(), "Seoul")
	require.NotNil(t, view.State().Result)

	fail = true
	view.SearchCity(context.Background(), "Atlantis")

	state := view.State()
	assert.Nil(t, state.Result)
	assert.Equal(t, "city not found", state.Error)
}

func TestView_StaleResponseDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})

	view := dashboard.NewView(fetcherFunc(func(_ context.Context, q weather.Query) (*weather.Result, error) {
		city := q.(weather.CityQuery).Name
		if city == "Slow" {
			close(slowStarted)
			<-releaseSlow
		}
		return &weather.Result{LocationName: city}, nil
	}), zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		view.SearchCity(context.Background(), "Slow")
	}()

	<-slowStarted
	view.SearchCity(context.Background(), "Fast")
	close(releaseSlow)
	wg.Wait()

	state := view.State()
	require.NotNil(t, state.Result)
	assert.Equal(t, "Fast", state.Result.LocationName)
	assert.False(t, state.Loading)
}

func TestView_LoadingWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	view := dashboard.NewView(fetcherFunc(func(context.Context, weather.Query) (*weather.Result, error) {
		close(started)
		<-release
		return seoul(), nil
	}), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		view.SearchCity(context.Background(), "Seoul")
		close(done)
	}()

	<-started
	state := view.State()
	assert.True(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Nil(t, state.Result)

	close(release)
	<-done
	assert.False(t, view.State().Loading)
}

func TestView_SkipLocation(t *testing.T) {
	view := dashboard.NewView(fetcherFunc(func(context.Context, weather.Query) (*weather.Result, error) {
		return seoul(), nil
	}), zerolog.Nop())

	view.SkipLocation()
	view.SearchCity(context.Background(), "Seoul")

	state := view.State()
	assert.False(t, state.Locating)
	assert.Empty(t, state.LocateError)
	require.NotNil(t, state.Result)
	assert.Equal(t, "Seoul", state.Result.LocationName)
}
