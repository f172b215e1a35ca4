package weather

import (
	"context"
)

// Provider abstracts a forecast source (e.g. MET Norway, Open-Meteo).
// Fetch returns the provider's time series for the coordinate in provider order.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, coord Coordinate) ([]Sample, error)
}

// Store is the contract the in-memory cache store (and any future shared store) must satisfy.
type Store interface {
	Get(key string) (CacheEntry, bool)
	Save(key string, entry CacheEntry)
}
