// Package cities holds the static city name to coordinate table.
package cities

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/i474232898/yr-weather/internal/weather"
)

//go:embed cities.json
var defaultTable []byte

var (
	// ErrUnknownCity is returned when a name has no entry in the table.
	ErrUnknownCity = errors.New("unknown city")

	errMalformedEntry = errors.New(`city entry must look like "lat,lon"`)
)

// Table maps a city name to its raw "lat,lon" text. Names match exactly.
type Table struct {
	entries map[string]string
}

// Load reads a JSON object of name -> "lat,lon" from path, or the embedded
// default table when path is empty.
func Load(path string) (*Table, error) {
	raw := defaultTable
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read cities file: %w", err)
		}
		raw = b
	}

	var entries map[string]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse cities table: %w", err)
	}
	return New(entries)
}

// New builds a Table from an in-memory map.
func New(entries map[string]string) (*Table, error) {
	t := &Table{entries: make(map[string]string, len(entries))}
	for name, value := range entries {
		if _, _, err := split(value); err != nil {
			return nil, fmt.Errorf("city %q: %w", name, err)
		}
		t.entries[name] = value
	}
	return t, nil
}

// Lookup returns the raw latitude and longitude text for name.
func (t *Table) Lookup(name string) (lat, lon string, err error) {
	value, ok := t.entries[name]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownCity, name)
	}
	return split(value)
}

// Resolve looks up name and normalizes its coordinate the same way user input is.
func (t *Table) Resolve(name string, n weather.Normalizer) (weather.Coordinate, error) {
	lat, lon, err := t.Lookup(name)
	if err != nil {
		return weather.Coordinate{}, err
	}
	coord, err := n.Normalize(lat, lon)
	if err != nil {
		return weather.Coordinate{}, fmt.Errorf("city %q: %w", name, err)
	}
	return coord, nil
}

// Names returns the known city names in lexical order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of cities in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

func split(value string) (string, string, error) {
	lat, lon, ok := strings.Cut(value, ",")
	if !ok || lat == "" || lon == "" || strings.Contains(lon, ",") {
		return "", "", errMalformedEntry
	}
	return strings.TrimSpace(lat), strings.TrimSpace(lon), nil
}
