package nws

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestBackoffDelay(t *testing.T) {
	b := BackoffConfig{InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{70, time.Second},
	}
	for _, tt := range tests {
		if got := b.delay(tt.attempt); got != tt.want {
			t.Fatalf("attempt %d: expected %s, got %s", tt.attempt, tt.want, got)
		}
	}
}

func TestStatusError(t *testing.T) {
	tests := map[int]error{
		http.StatusTooManyRequests:     errRateLimited,
		http.StatusServiceUnavailable:  errServerError,
		http.StatusInternalServerError: errServerError,
		http.StatusNotFound:            errUnexpected,
		http.StatusBadRequest:          errUnexpected,
	}
	for code, want := range tests {
		if err := statusError(code); !errors.Is(err, want) {
			t.Fatalf("%d: expected %v, got %v", code, want, err)
		}
	}
}
