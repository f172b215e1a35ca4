package weather

import (
	"errors"
	"testing"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(DefaultMaxDecimalPlaces)

	tests := []struct {
		name    string
		lat     string
		lon     string
		want    Coordinate
		wantErr bool
	}{
		{name: "plain", lat: "55.7522", lon: "37.6156", want: Coordinate{"55.7522", "37.6156"}},
		{name: "negative", lat: "-33.8688", lon: "-151.2093", want: Coordinate{"-33.8688", "-151.2093"}},
		{name: "short fraction kept", lat: "55.7", lon: "37.61", want: Coordinate{"55.7", "37.61"}},
		{name: "truncated not rounded", lat: "12.56789", lon: "0.99999", want: Coordinate{"12.5678", "0.9999"}},
		{name: "comma separator", lat: "55,75", lon: "37,61", want: Coordinate{"55.75", "37.61"}},
		{name: "letters", lat: "abc", lon: "37.6", wantErr: true},
		{name: "integer without point", lat: "55", lon: "37.6", wantErr: true},
		{name: "leading plus", lat: "+55.1", lon: "37.6", wantErr: true},
		{name: "two separators", lat: "55,7,5", lon: "37.6", wantErr: true},
		{name: "empty lon", lat: "55.1", lon: "", wantErr: true},
		{name: "whitespace", lat: " 55.1", lon: "37.6", wantErr: true},
		{name: "missing integer part", lat: ".5", lon: "37.6", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.lat, tt.lon)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCoordinateFormat) {
					t.Fatalf("expected ErrInvalidCoordinateFormat, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q, %q) = %+v, want %+v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := NewNormalizer(DefaultMaxDecimalPlaces)

	inputs := [][2]string{
		{"55.7522", "37.6156"},
		{"12.56789", "-0.123456"},
		{"1,5", "2,25"},
	}

	for _, in := range inputs {
		first, err := n.Normalize(in[0], in[1])
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", in, err)
		}
		second, err := n.Normalize(first.Lat, first.Lon)
		if err != nil {
			t.Fatalf("unexpected error re-normalizing %+v: %v", first, err)
		}
		if first != second {
			t.Errorf("not idempotent: %+v then %+v", first, second)
		}
	}
}

func TestNormalizer_CommaEquivalentToPeriod(t *testing.T) {
	n := NewNormalizer(0)

	withComma, err := n.Normalize("55,75", "37,61")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	withPeriod, err := n.Normalize("55.75", "37.61")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withComma.Key() != withPeriod.Key() {
		t.Errorf("expected same key, got %q and %q", withComma.Key(), withPeriod.Key())
	}
}

func TestNormalizer_CustomPrecision(t *testing.T) {
	n := NewNormalizer(2)

	got, err := n.Normalize("55.7522", "37.6")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key() != "55.75,37.6" {
		t.Errorf("expected key 55.75,37.6, got %s", got.Key())
	}
}

func TestCoordinate_KeySharedAfterTruncation(t *testing.T) {
	n := NewNormalizer(DefaultMaxDecimalPlaces)

	a, _ := n.Normalize("55.75221", "37.61561")
	b, _ := n.Normalize("55.75229", "37.61569")
	if a.Key() != b.Key() {
		t.Errorf("expected truncated coordinates to share a key, got %q and %q", a.Key(), b.Key())
	}
}
