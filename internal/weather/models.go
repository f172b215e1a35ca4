package weather

import (
	"time"
)

// Coordinate is a normalized latitude/longitude pair kept in its text form.
// The text is what providers receive and what the cache is keyed by, so two
// inputs that truncate to the same digits share one entry.
type Coordinate struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Key returns the canonical cache key for this coordinate.
func (c Coordinate) Key() string {
	return c.Lat + "," + c.Lon
}

// Sample is one provider-reported point of the forecast time series.
type Sample struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
}

// DailySample is the reading kept for one calendar day at the target hour.
type DailySample struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
}

// CacheEntry holds the last successful fetch for a cache key.
type CacheEntry struct {
	Samples   []Sample
	FetchedAt time.Time
}
