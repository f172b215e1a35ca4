package weather

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMaxDecimalPlaces is the number of fractional digits kept by the normalizer.
const DefaultMaxDecimalPlaces = 4

var decimalPattern = regexp.MustCompile(`^-?\d+\.\d+$`)

// Normalizer validates raw coordinate text and truncates it to a fixed precision.
type Normalizer struct {
	MaxDecimalPlaces int
}

// NewNormalizer returns a Normalizer; a non-positive precision falls back to the default.
func NewNormalizer(maxDecimalPlaces int) Normalizer {
	if maxDecimalPlaces <= 0 {
		maxDecimalPlaces = DefaultMaxDecimalPlaces
	}
	return Normalizer{MaxDecimalPlaces: maxDecimalPlaces}
}

// Normalize accepts comma or period decimal separators, checks both components
// against the decimal pattern and truncates (never rounds) the fractional part.
func (n Normalizer) Normalize(rawLat, rawLon string) (Coordinate, error) {
	lat, err := n.component(rawLat)
	if err != nil {
		return Coordinate{}, fmt.Errorf("latitude %q: %w", rawLat, err)
	}
	lon, err := n.component(rawLon)
	if err != nil {
		return Coordinate{}, fmt.Errorf("longitude %q: %w", rawLon, err)
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

func (n Normalizer) component(raw string) (string, error) {
	s := strings.ReplaceAll(raw, ",", ".")
	if !decimalPattern.MatchString(s) {
		return "", ErrInvalidCoordinateFormat
	}
	return truncateDecimal(s, n.maxPlaces()), nil
}

func (n Normalizer) maxPlaces() int {
	if n.MaxDecimalPlaces <= 0 {
		return DefaultMaxDecimalPlaces
	}
	return n.MaxDecimalPlaces
}

// truncateDecimal cuts the fractional part of a validated decimal string.
func truncateDecimal(s string, maxPlaces int) string {
	whole, frac, ok := strings.Cut(s, ".")
	if !ok || len(frac) <= maxPlaces {
		return s
	}
	return whole + "." + frac[:maxPlaces]
}
