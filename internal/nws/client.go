// Package nws implements weather.Client against the National Weather Service API.
package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/i474232898/nws-weather/internal/weather"
)

const (
	DefaultBaseURL = "https://api.weather.gov"

	userAgentProduct = "nws-weather"
	pointsCacheKey   = "points"
	stationsCacheKey = "stations"
)

// Client talks to api.weather.gov for a single location.
type Client struct {
	baseURL          string
	userAgent        string
	loc              weather.Location
	observationLimit int
	cacheTTL         time.Duration

	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	cache   *cache.Cache
	logger  *zap.SugaredLogger
}

// Ensure Client implements weather.Client
var _ weather.Client = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.httpCfg.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithCacheTTL sets how long the points and station lookups are reused.
// The mapping from coordinates to stations is stable, so this can be long.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithObservationLimit sets how many observations are requested per refresh.
func WithObservationLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.observationLimit = n
		}
	}
}

// WithBackoff enables retries. Without it a failed request is not retried
// and the next scheduled refresh acts as the retry.
func WithBackoff(b BackoffConfig) Option {
	return func(c *Client) {
		c.httpCfg.Backoff = b
	}
}

// NewClient creates a client for loc. userID identifies the caller in the
// User-Agent header, which the NWS API requires.
func NewClient(httpClient *http.Client, loc weather.Location, userID string, opts ...Option) *Client {
	c := &Client{
		baseURL:          DefaultBaseURL,
		userAgent:        fmt.Sprintf("%s %s", userID, userAgentProduct),
		loc:              loc,
		observationLimit: 1,
		cacheTTL:         24 * time.Hour,
		httpCfg: HTTPClientConfig{
			Client: httpClient,
			Backoff: BackoffConfig{
				MaxRetries:      0,
				InitialInterval: 250 * time.Millisecond,
				MaxInterval:     2 * time.Second,
			},
		},
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.circuit = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nws",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	c.cache = cache.New(c.cacheTTL, 2*c.cacheTTL)
	return c
}

type pointProperties struct {
	Forecast            string `json:"forecast"`
	ForecastHourly      string `json:"forecastHourly"`
	ObservationStations string `json:"observationStations"`
}

type pointsResponse struct {
	Properties pointProperties `json:"properties"`
}

type stationsResponse struct {
	Features []struct {
		Properties struct {
			StationIdentifier string `json:"stationIdentifier"`
			Name              string `json:"name"`
		} `json:"properties"`
	} `json:"features"`
}

type observationsResponse struct {
	Features []struct {
		Properties weather.Observation `json:"properties"`
	} `json:"features"`
}

type forecastResponse struct {
	Properties struct {
		Periods []weather.ForecastPeriod `json:"periods"`
	} `json:"properties"`
}

// Stations returns the observation stations for the location, nearest first.
func (c *Client) Stations(ctx context.Context) ([]string, error) {
	if v, ok := c.cache.Get(stationsCacheKey); ok {
		return v.([]string), nil
	}

	pts, err := c.points(ctx)
	if err != nil {
		return nil, err
	}
	if pts.ObservationStations == "" {
		return nil, fmt.Errorf("points response for %s has no observation stations url", c.loc.Key())
	}

	var payload stationsResponse
	if err := c.getJSON(ctx, pts.ObservationStations, &payload); err != nil {
		return nil, fmt.Errorf("station lookup failed: %w", err)
	}

	stations := make([]string, 0, len(payload.Features))
	for _, f := range payload.Features {
		if id := f.Properties.StationIdentifier; id != "" {
			stations = append(stations, id)
		}
	}
	c.cache.Set(stationsCacheKey, stations, cache.DefaultExpiration)
	return stations, nil
}

// Observations returns the latest observations for station, newest first.
func (c *Client) Observations(ctx context.Context, station string) ([]weather.Observation, error) {
	u := fmt.Sprintf("%s/stations/%s/observations?limit=%d", c.baseURL, url.PathEscape(station), c.observationLimit)

	var payload observationsResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, fmt.Errorf("observations for %s: %w", station, err)
	}

	out := make([]weather.Observation, 0, len(payload.Features))
	for _, f := range payload.Features {
		out = append(out, f.Properties)
	}
	return out, nil
}

// Forecast returns the day/night forecast periods for the location.
func (c *Client) Forecast(ctx context.Context) ([]weather.ForecastPeriod, error) {
	pts, err := c.points(ctx)
	if err != nil {
		return nil, err
	}
	return c.periods(ctx, "forecast", pts.Forecast)
}

// ForecastHourly returns the hourly forecast periods for the location.
func (c *Client) ForecastHourly(ctx context.Context) ([]weather.ForecastPeriod, error) {
	pts, err := c.points(ctx)
	if err != nil {
		return nil, err
	}
	return c.periods(ctx, "hourly forecast", pts.ForecastHourly)
}

func (c *Client) periods(ctx context.Context, kind, u string) ([]weather.ForecastPeriod, error) {
	if u == "" {
		return nil, fmt.Errorf("points response for %s has no %s url", c.loc.Key(), kind)
	}

	var payload forecastResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return payload.Properties.Periods, nil
}

func (c *Client) points(ctx context.Context) (pointProperties, error) {
	if v, ok := c.cache.Get(pointsCacheKey); ok {
		return v.(pointProperties), nil
	}

	u := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, c.loc.Latitude, c.loc.Longitude)
	var payload pointsResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return pointProperties{}, fmt.Errorf("grid point lookup failed: %w", err)
	}

	c.cache.Set(pointsCacheKey, payload.Properties, cache.DefaultExpiration)
	return payload.Properties, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out interface{}) error {
	newReq := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/geo+json")
		return req, nil
	}

	start := time.Now()
	resp, err := do(ctx, c.httpCfg, c.circuit, newReq)
	if err != nil {
		c.logger.Debugw("nws request failed", "url", u, "error", err)
		return err
	}
	defer resp.Body.Close()

	c.logger.Debugw("nws request", "url", u, "status", resp.StatusCode, "duration", time.Since(start))

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}
