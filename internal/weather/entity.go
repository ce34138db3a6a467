package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// MinTimeBetweenUpdates is the default throttle between two refreshes.
	MinTimeBetweenUpdates = 30 * time.Minute
	// RequestTimeout bounds station discovery and each refresh as a whole.
	RequestTimeout = 10 * time.Second

	// throttleSlack absorbs scheduler jitter so a poll that fires a few
	// milliseconds early is not rejected.
	throttleSlack = time.Second
)

var (
	// ErrThrottled is returned when a refresh is requested too soon or while
	// another refresh is still running.
	ErrThrottled = errors.New("refresh throttled")
	// ErrNoStations is returned when station discovery yields nothing.
	ErrNoStations = errors.New("no observation stations found")
	// ErrInvalidMode is returned for an unsupported forecast mode.
	ErrInvalidMode = errors.New("invalid forecast mode")
	// ErrInvalidUnits is returned for an unsupported unit system.
	ErrInvalidUnits = errors.New("invalid unit system")
)

// ForecastMode selects which forecast the entity exposes.
type ForecastMode string

const (
	DayNight ForecastMode = "daynight"
	Hourly   ForecastMode = "hourly"
)

// EntityConfig describes a single weather entity.
type EntityConfig struct {
	// Name defaults to the station identifier.
	Name     string
	Location Location
	// Station overrides automatic station selection when set.
	Station     string
	MinInterval time.Duration
	Timeout     time.Duration
	// Mode defaults to DayNight.
	Mode ForecastMode
	// Units defaults to Imperial.
	Units UnitSystem
}

// Entity polls the upstream client and exposes the host-facing attributes
// derived from the last successful refresh.
type Entity struct {
	client Client
	store  Store
	logger *zap.SugaredLogger

	name    string
	loc     Location
	station string
	timeout time.Duration
	mode    ForecastMode
	units   UnitSystem

	refreshMu sync.Mutex
	limiter   *rate.Limiter

	mu          sync.RWMutex
	observation *Observation
	forecast    []ForecastPeriod
	updatedAt   time.Time
	listeners   []Listener
}

// NewEntity resolves the station (discovering one when none is configured)
// and returns a ready entity. Nothing is fetched until the first Update.
func NewEntity(ctx context.Context, client Client, store Store, logger *zap.SugaredLogger, cfg EntityConfig) (*Entity, error) {
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = MinTimeBetweenUpdates
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = RequestTimeout
	}
	if cfg.Mode == "" {
		cfg.Mode = DayNight
	}
	if cfg.Mode != DayNight && cfg.Mode != Hourly {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, cfg.Mode)
	}
	if cfg.Units == "" {
		cfg.Units = Imperial
	}
	if !cfg.Units.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUnits, cfg.Units)
	}

	station := cfg.Station
	logger.Debugw("setting up station", "station", station)
	if station == "" {
		discoverCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		stations, err := client.Stations(discoverCtx)
		if err != nil {
			return nil, fmt.Errorf("discover stations: %w", err)
		}
		if len(stations) == 0 {
			return nil, ErrNoStations
		}
		station = stations[0]
		logger.Debugw("initialized for coordinates",
			"latitude", cfg.Location.Latitude,
			"longitude", cfg.Location.Longitude,
			"station", station,
		)
	}

	name := cfg.Name
	if name == "" {
		name = station
	}

	every := cfg.MinInterval
	if every > throttleSlack {
		every -= throttleSlack
	}

	return &Entity{
		client:  client,
		store:   store,
		logger:  logger,
		name:    name,
		loc:     cfg.Location,
		station: station,
		timeout: cfg.Timeout,
		mode:    cfg.Mode,
		units:   cfg.Units,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}, nil
}

// OnUpdate registers a listener for successful refreshes.
func (e *Entity) OnUpdate(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Update fetches the current observation and the forecast within one bounded
// timeout. On any failure the previously cached data is left untouched.
func (e *Entity) Update(ctx context.Context) error {
	if !e.refreshMu.TryLock() {
		return ErrThrottled
	}
	defer e.refreshMu.Unlock()

	if !e.limiter.Allow() {
		return ErrThrottled
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Debugw("updating station observations", "station", e.station)
	observations, err := e.client.Observations(ctx, e.station)
	if err != nil {
		e.logger.Errorw("error updating observation", "station", e.station, "error", err)
		return fmt.Errorf("update observation for %s: %w", e.station, err)
	}

	e.logger.Debugw("updating forecast", "station", e.station, "mode", e.mode)
	periods, err := e.fetchForecast(ctx)
	if err != nil {
		e.logger.Errorw("error updating forecast", "station", e.station, "error", err)
		return fmt.Errorf("update forecast for %s: %w", e.station, err)
	}

	var obs *Observation
	if len(observations) > 0 {
		o := observations[0]
		obs = &o
	}

	e.mu.Lock()
	e.observation = obs
	e.forecast = periods
	e.updatedAt = time.Now().UTC()
	listeners := append([]Listener(nil), e.listeners...)
	e.mu.Unlock()

	state, derr := e.derive()
	if derr != nil {
		e.logger.Warnw("some attributes could not be derived", "station", e.station, "error", derr)
	}
	e.logger.Debugw("refreshed",
		"station", e.station,
		"observations", len(observations),
		"forecast_periods", len(periods),
		"condition", state.Condition,
	)

	if e.store != nil {
		e.store.SaveState(e.station, state)
	}
	for _, l := range listeners {
		l(state)
	}
	return nil
}

// State returns the derived attribute set from the cached data.
func (e *Entity) State() State {
	st, _ := e.derive()
	return st
}

func (e *Entity) fetchForecast(ctx context.Context) ([]ForecastPeriod, error) {
	if e.mode == Hourly {
		return e.client.ForecastHourly(ctx)
	}
	return e.client.Forecast(ctx)
}

func (e *Entity) derive() (State, error) {
	e.mu.RLock()
	obs, periods, updated := e.observation, e.forecast, e.updatedAt
	e.mu.RUnlock()

	return DeriveState(State{
		UniqueID:  e.UniqueID(),
		Name:      e.name,
		Station:   e.station,
		UpdatedAt: updated,
	}, obs, periods, e.units)
}

// Name returns the display name of the entity.
func (e *Entity) Name() string { return e.name }

// Station returns the observation station identifier in use.
func (e *Entity) Station() string { return e.station }

// UniqueID returns the location based unique identifier.
func (e *Entity) UniqueID() string { return e.loc.Key() }

// Mode returns the forecast mode.
func (e *Entity) Mode() ForecastMode { return e.mode }

// Attribution returns the data attribution string.
func (e *Entity) Attribution() string { return Attribution }

// TemperatureUnit returns the unit temperatures are reported in.
func (e *Entity) TemperatureUnit() string { return e.units.Labels().Temperature }

// Temperature returns the current temperature.
func (e *Entity) Temperature() *float64 { return e.State().Temperature }

// Humidity returns the relative humidity in percent.
func (e *Entity) Humidity() *float64 { return e.State().Humidity }

// Pressure returns the sea level pressure.
func (e *Entity) Pressure() *float64 { return e.State().Pressure }

// WindSpeed returns the wind speed.
func (e *Entity) WindSpeed() *int { return e.State().WindSpeed }

// WindBearing returns the wind direction in degrees.
func (e *Entity) WindBearing() *float64 { return e.State().WindBearing }

// Visibility returns the visibility.
func (e *Entity) Visibility() *int { return e.State().Visibility }

// Condition returns the classified current condition, or "" when unknown.
func (e *Entity) Condition() Condition { return e.State().Condition }

// Forecast returns the derived forecast periods.
func (e *Entity) Forecast() []ForecastEntry { return e.State().Forecast }
