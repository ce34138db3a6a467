package store

import (
	"errors"
	"testing"
	"time"

	"github.com/i474232898/nws-weather/internal/weather"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	s := NewMemoryStore(time.Hour)

	if _, err := s.GetLatest("KBOS"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	s.SaveState("KBOS", weather.State{Station: "KBOS", Condition: weather.ConditionCloudy, UpdatedAt: time.Now()})
	s.SaveState("KBOS", weather.State{Station: "KBOS", Condition: weather.ConditionSunny, UpdatedAt: time.Now()})
	s.SaveState("KJFK", weather.State{Station: "KJFK", UpdatedAt: time.Now()})

	got, err := s.GetLatest("KBOS")
	if err != nil {
		t.Fatalf("GetLatest failed: %v", err)
	}
	if got.Condition != weather.ConditionSunny {
		t.Fatalf("expected latest state to replace previous, got %s", got.Condition)
	}

	stations := s.Stations()
	if len(stations) != 2 || stations[0] != "KBOS" || stations[1] != "KJFK" {
		t.Fatalf("unexpected stations %v", stations)
	}
}

func TestMemoryStoreAvailable(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	if s.Available("KBOS") {
		t.Fatalf("expected unknown station to be unavailable")
	}

	s.SaveState("KBOS", weather.State{UpdatedAt: time.Now()})
	if !s.Available("KBOS") {
		t.Fatalf("expected fresh state to be available")
	}

	s.SaveState("KBOS", weather.State{UpdatedAt: time.Now().Add(-2 * time.Minute)})
	if s.Available("KBOS") {
		t.Fatalf("expected stale state to be unavailable")
	}

	never := NewMemoryStore(0)
	never.SaveState("KBOS", weather.State{UpdatedAt: time.Now().Add(-24 * time.Hour)})
	if !never.Available("KBOS") {
		t.Fatalf("expected states to never go stale when staleAfter is 0")
	}
}
