package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/weatherdash/weatherdash/internal/provider/resilience"
	"github.com/weatherdash/weatherdash/internal/weather"
)

// WeatherLookup is the in-process weather service.
type WeatherLookup interface {
	Current(ctx context.Context, q weather.Query) (*weather.Result, error)
}

// ServiceFetcher calls the weather service in-process and converts errors
// exactly as the proxy endpoint does.
type ServiceFetcher struct {
	Lookup WeatherLookup
}

// Fetch implements Fetcher.
func (f ServiceFetcher) Fetch(ctx context.Context, q weather.Query) (*weather.Result, error) {
	result, err := f.Lookup.Current(ctx, q)
	if err != nil {
		status, message := weather.Describe(err)
		return nil, &FetchError{Status: status, Message: message}
	}
	return result, nil
}

// ProxyClient calls a remote proxy endpoint over HTTP.
type ProxyClient struct {
	endpoint   string
	httpClient *resilience.Client
}

// NewProxyClient creates a client for the proxy at endpoint
// (for example "https://weather.example.com/api/weather").
func NewProxyClient(endpoint string, httpClient *resilience.Client) *ProxyClient {
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig("weather-proxy"))
	}
	return &ProxyClient{endpoint: endpoint, httpClient: httpClient}
}

// Fetch implements Fetcher.
func (c *ProxyClient) Fetch(ctx context.Context, q weather.Query) (*weather.Result, error) {
	params := url.Values{}
	switch q := q.(type) {
	case weather.CoordinateQuery:
		params.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	case weather.CityQuery:
		params.Set("city", q.Name)
	}

	target := c.endpoint
	if encoded := params.Encode(); encoded != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling weather proxy: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading proxy response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &errBody)
		return nil, &FetchError{Status: resp.StatusCode, Message: errBody.Message}
	}

	var result weather.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding proxy response: %w", err)
	}
	return &result, nil
}
