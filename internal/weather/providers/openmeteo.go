package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/yr-weather/internal/weather"
)

// DefaultOpenMeteoBaseURL is the Open-Meteo forecast endpoint.
const DefaultOpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo's
// hourly temperature series. It needs no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoBaseURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, coord weather.Coordinate) ([]weather.Sample, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", coord.Lat)
		values.Set("longitude", coord.Lon)
		values.Set("hourly", "temperature_2m")
		values.Set("timeformat", "unixtime")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("openmeteo: %w", err)
	}
	defer resp.Body.Close()

	if err := checkJSON(resp); err != nil {
		return nil, fmt.Errorf("openmeteo: %w", err)
	}

	var payload struct {
		Hourly *struct {
			Time        []int64    `json:"time"`
			Temperature []*float64 `json:"temperature_2m"`
		} `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("openmeteo: %w: %v", errMalformedBody, err)
	}
	if payload.Hourly == nil {
		return nil, fmt.Errorf("openmeteo: %w: missing hourly", errMalformedBody)
	}
	if len(payload.Hourly.Time) != len(payload.Hourly.Temperature) {
		return nil, fmt.Errorf("openmeteo: %w: %d times but %d temperatures",
			errMalformedBody, len(payload.Hourly.Time), len(payload.Hourly.Temperature))
	}

	samples := make([]weather.Sample, 0, len(payload.Hourly.Time))
	for i, ts := range payload.Hourly.Time {
		// Open-Meteo pads the tail of the series with nulls; skip them.
		if payload.Hourly.Temperature[i] == nil {
			continue
		}
		samples = append(samples, weather.Sample{
			Time:        time.Unix(ts, 0).UTC(),
			Temperature: *payload.Hourly.Temperature[i],
		})
	}

	return samples, nil
}
