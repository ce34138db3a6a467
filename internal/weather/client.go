package weather

import (
	"context"
)

// Client abstracts the upstream weather data source (the NWS API).
type Client interface {
	// Stations returns candidate observation stations, nearest first.
	Stations(ctx context.Context) ([]string, error)
	// Observations returns the latest observations for a station, newest first.
	Observations(ctx context.Context, station string) ([]Observation, error)
	// Forecast returns the ordered day/night forecast periods for the configured location.
	Forecast(ctx context.Context) ([]ForecastPeriod, error)
	// ForecastHourly returns the ordered hourly forecast periods.
	ForecastHourly(ctx context.Context) ([]ForecastPeriod, error)
}

// Store is the contract the in-memory state store must satisfy.
type Store interface {
	SaveState(station string, state State)
	GetLatest(station string) (State, error)
}

// Listener is notified with the derived state after every successful refresh.
type Listener func(State)
