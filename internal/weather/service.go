package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultFreshnessWindow is how long a fetched forecast is reused without refetching.
const DefaultFreshnessWindow = time.Minute

// Cache lookup outcomes reported to the Observer.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupStale = "stale"
)

// CacheConfig controls freshness and the upstream deadline of the forecast cache.
type CacheConfig struct {
	// FreshnessWindow is the maximum age of an entry that is served as-is.
	FreshnessWindow time.Duration
	// FetchTimeout bounds a single upstream call (0 = no deadline).
	FetchTimeout time.Duration
}

// Observer receives cache and upstream events, typically for metrics.
type Observer interface {
	CacheLookup(result string)
	UpstreamFetch(provider string, d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) CacheLookup(string)                         {}
func (nopObserver) UpstreamFetch(string, time.Duration, error) {}

// Service serves forecasts for a coordinate from a short-lived cache, refetching
// from the provider when the entry is missing or stale. Concurrent refetches of
// the same key share one upstream call.
type Service struct {
	store    Store
	provider Provider
	cfg      CacheConfig
	observer Observer

	group singleflight.Group
	now   func() time.Time
}

// NewService creates a new Service. A nil observer disables instrumentation.
func NewService(store Store, provider Provider, cfg CacheConfig, observer Observer) *Service {
	if cfg.FreshnessWindow <= 0 {
		cfg.FreshnessWindow = DefaultFreshnessWindow
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Service{
		store:    store,
		provider: provider,
		cfg:      cfg,
		observer: observer,
		now:      time.Now,
	}
}

// GetForecast returns the cached samples for coord while they are fresh and
// otherwise fetches, stores and returns new ones. A failed fetch leaves any
// previous entry in place.
func (s *Service) GetForecast(ctx context.Context, coord Coordinate) ([]Sample, error) {
	key := coord.Key()

	entry, ok := s.store.Get(key)
	switch {
	case ok && s.isFresh(entry):
		s.observer.CacheLookup(LookupHit)
		log.Debug().Str("key", key).Msg("weather: serving forecast from cache")
		return entry.Samples, nil
	case ok:
		s.observer.CacheLookup(LookupStale)
	default:
		s.observer.CacheLookup(LookupMiss)
	}

	return s.Refresh(ctx, coord)
}

// Refresh fetches coord from the provider regardless of cache state and stores
// the result on success.
func (s *Service) Refresh(ctx context.Context, coord Coordinate) ([]Sample, error) {
	key := coord.Key()

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.fetchAndStore(ctx, coord)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("key", key).Msg("weather: joined in-flight fetch")
	}

	samples, _ := v.([]Sample)
	return samples, nil
}

func (s *Service) fetchAndStore(ctx context.Context, coord Coordinate) ([]Sample, error) {
	key := coord.Key()

	// The fetch is shared by every caller waiting on this key, so it must not
	// die with the first caller's request.
	fetchCtx := context.WithoutCancel(ctx)
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(fetchCtx, s.cfg.FetchTimeout)
		defer cancel()
	}

	start := time.Now()
	samples, err := s.provider.Fetch(fetchCtx, coord)
	s.observer.UpstreamFetch(s.provider.Name(), time.Since(start), err)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Str("provider", s.provider.Name()).
			Msg("weather: upstream fetch failed; keeping previous entry if any")
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}

	s.store.Save(key, CacheEntry{
		Samples:   samples,
		FetchedAt: s.now(),
	})

	log.Info().Str("key", key).Str("provider", s.provider.Name()).Int("samples", len(samples)).
		Msg("weather: forecast refreshed")
	return samples, nil
}

func (s *Service) isFresh(entry CacheEntry) bool {
	return s.now().Sub(entry.FetchedAt) < s.cfg.FreshnessWindow
}
