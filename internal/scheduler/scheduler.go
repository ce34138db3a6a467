package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/nws-weather/internal/weather"
)

// Updater is refreshed on every tick.
type Updater interface {
	Station() string
	Update(ctx context.Context) error
}

// Scheduler periodically refreshes the configured weather entities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	entities  []Updater
	interval  time.Duration
	logger    *zap.SugaredLogger
}

// New creates a new Scheduler.
func New(entities []Updater, interval time.Duration, logger *zap.SugaredLogger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	// A tick never starts while the previous one is still running.
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		entities:  entities,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.entities) == 0 {
		s.logger.Infow("scheduler: no entities configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = weather.MinTimeBetweenUpdates
	}

	_, err := s.scheduler.Every(interval).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runOnce() {
	s.logger.Debugw("scheduler: running weather refresh job")

	var wg sync.WaitGroup
	for _, e := range s.entities {
		e := e
		wg.Add(1)
		go func() {
			defer wg.Done()

			// The entity bounds each refresh with its own timeout.
			err := e.Update(context.Background())
			switch {
			case err == nil:
			case errors.Is(err, weather.ErrThrottled):
				s.logger.Debugw("scheduler: refresh throttled", "station", e.Station())
			default:
				s.logger.Warnw("scheduler: refresh failed; keeping last known state", "station", e.Station(), "error", err)
			}
		}()
	}
	wg.Wait()
	s.logger.Debugw("scheduler: completed weather refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
