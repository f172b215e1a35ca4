package cities

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/i474232898/yr-weather/internal/weather"
)

func TestLoad_EmbeddedTable(t *testing.T) {
	table, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() == 0 {
		t.Fatal("expected embedded cities")
	}

	lat, lon, err := table.Lookup("Moscow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lat != "55.7522" || lon != "37.6156" {
		t.Errorf("unexpected Moscow coordinates %s,%s", lat, lon)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.json")
	if err := os.WriteFile(path, []byte(`{"Tromsø": "69.6496,18.9560"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := table.Names(); len(names) != 1 || names[0] != "Tromsø" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`["Moscow"]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for non-object JSON")
	}
}

func TestNew_RejectsMalformedEntries(t *testing.T) {
	for _, value := range []string{"55.75", "55.75,37.61,1", ",37.61", ""} {
		if _, err := New(map[string]string{"X": value}); err == nil {
			t.Errorf("expected error for %q", value)
		}
	}
}

func TestLookup_ExactMatchOnly(t *testing.T) {
	table, err := New(map[string]string{"Moscow": "55.7522,37.6156"})
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"moscow", "Moscow ", "Oslo"} {
		if _, _, err := table.Lookup(name); !errors.Is(err, ErrUnknownCity) {
			t.Errorf("Lookup(%q): expected ErrUnknownCity, got %v", name, err)
		}
	}
}

func TestResolve_Normalizes(t *testing.T) {
	table, err := New(map[string]string{
		"Precise": "55.752219,37.615649",
		"Broken":  "north,east",
	})
	if err != nil {
		t.Fatal(err)
	}
	n := weather.NewNormalizer(weather.DefaultMaxDecimalPlaces)

	coord, err := table.Resolve("Precise", n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Key() != "55.7522,37.6156" {
		t.Errorf("unexpected key %s", coord.Key())
	}

	if _, err := table.Resolve("Broken", n); !errors.Is(err, weather.ErrInvalidCoordinateFormat) {
		t.Errorf("expected ErrInvalidCoordinateFormat, got %v", err)
	}
}
