package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/yr-weather/internal/weather"
)

// Refresher refetches and caches the forecast for a coordinate.
type Refresher interface {
	Refresh(ctx context.Context, coord weather.Coordinate) ([]weather.Sample, error)
}

// Target is a named coordinate kept warm in the forecast cache.
type Target struct {
	Name  string
	Coord weather.Coordinate
}

// Scheduler periodically refreshes the forecast cache for configured targets so
// requests for popular cities rarely wait on the provider.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	targets   []Target
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. timeout bounds each target's refresh.
func New(targets []Target, interval, timeout time.Duration, refresher Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		targets:   targets,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the warm-up job and starts the underlying scheduler. The first
// run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.targets) == 0 {
		log.Info().Msg("scheduler: no warm cities configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = weather.DefaultFreshnessWindow
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every target concurrently and waits for all of them.
func (s *Scheduler) RunOnce() {
	log.Debug().Int("targets", len(s.targets)).Msg("scheduler: running warm-up job")

	var wg sync.WaitGroup
	for _, t := range s.targets {
		wg.Add(1)
		go func(t Target) {
			defer wg.Done()

			ctx := context.Background()
			if s.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, s.timeout)
				defer cancel()
			}

			if _, err := s.refresher.Refresh(ctx, t.Coord); err != nil {
				log.Warn().Err(err).Str("city", t.Name).Str("key", t.Coord.Key()).Msg("scheduler: warm-up failed")
			}
		}(t)
	}
	wg.Wait()

	log.Debug().Msg("scheduler: completed warm-up job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
