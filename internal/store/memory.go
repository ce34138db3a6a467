package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/nws-weather/internal/weather"
)

var (
	// ErrNotFound is returned when no state has been recorded for a station.
	ErrNotFound = errors.New("no weather state for station")
)

// MemoryStore is a concurrency-safe in-memory holder of the latest derived
// state per station. Each save replaces the previous state wholesale.
type MemoryStore struct {
	mu sync.RWMutex

	// key: station identifier
	data map[string]weather.State

	// staleAfter marks a state as unavailable once it is older than this.
	staleAfter time.Duration
}

// NewMemoryStore creates a new MemoryStore. If staleAfter is <= 0, states
// never go stale.
func NewMemoryStore(staleAfter time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]weather.State),
		staleAfter: staleAfter,
	}
}

// SaveState replaces the state recorded for a station.
func (s *MemoryStore) SaveState(station string, state weather.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[station] = state
}

// GetLatest returns the most recent state for a station.
func (s *MemoryStore) GetLatest(station string) (weather.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[station]
	if !ok {
		return weather.State{}, ErrNotFound
	}
	return state, nil
}

// Available reports whether the station has a state that is not stale.
func (s *MemoryStore) Available(station string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[station]
	if !ok {
		return false
	}
	if s.staleAfter <= 0 {
		return true
	}
	return time.Since(state.UpdatedAt) < s.staleAfter
}

// Stations lists the stations with a recorded state, sorted.
func (s *MemoryStore) Stations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.data))
	for k := range s.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
