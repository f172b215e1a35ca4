package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/yr-weather/internal/weather"
)

// DefaultYrBaseURL is the MET Norway compact location forecast endpoint.
const DefaultYrBaseURL = "https://api.met.no/weatherapi/locationforecast/2.0/compact"

var errMalformedBody = errors.New("malformed forecast body")

// YrProvider implements the weather.Provider interface for MET Norway (yr.no).
type YrProvider struct {
	name      string
	baseURL   string
	userAgent string
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
}

// NewYrProvider creates a MET Norway provider. MET Norway rejects anonymous
// clients, so userAgent should identify the application.
func NewYrProvider(client *http.Client, baseURL, userAgent string) *YrProvider {
	if baseURL == "" {
		baseURL = DefaultYrBaseURL
	}
	return &YrProvider{
		name:      "yr",
		baseURL:   baseURL,
		userAgent: userAgent,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("yr"),
	}
}

func (p *YrProvider) Name() string {
	return p.name
}

// yrResponse is the subset of the locationforecast GeoJSON the service relies on.
type yrResponse struct {
	Properties *struct {
		Timeseries []yrTimeStep `json:"timeseries"`
	} `json:"properties"`
}

type yrTimeStep struct {
	Time time.Time `json:"time"`
	Data struct {
		Instant struct {
			Details struct {
				AirTemperature *float64 `json:"air_temperature"`
			} `json:"details"`
		} `json:"instant"`
	} `json:"data"`
}

func (p *YrProvider) Fetch(ctx context.Context, coord weather.Coordinate) ([]weather.Sample, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", coord.Lat)
		values.Set("lon", coord.Lon)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", p.userAgent)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("yr: %w", err)
	}
	defer resp.Body.Close()

	if err := checkJSON(resp); err != nil {
		return nil, fmt.Errorf("yr: %w", err)
	}

	var payload yrResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("yr: %w: %v", errMalformedBody, err)
	}
	if payload.Properties == nil || payload.Properties.Timeseries == nil {
		return nil, fmt.Errorf("yr: %w: missing properties.timeseries", errMalformedBody)
	}

	samples := make([]weather.Sample, 0, len(payload.Properties.Timeseries))
	for i, step := range payload.Properties.Timeseries {
		if step.Time.IsZero() {
			return nil, fmt.Errorf("yr: %w: timeseries[%d] has no time", errMalformedBody, i)
		}
		temp := step.Data.Instant.Details.AirTemperature
		if temp == nil {
			return nil, fmt.Errorf("yr: %w: timeseries[%d] has no air_temperature", errMalformedBody, i)
		}
		samples = append(samples, weather.Sample{
			Time:        step.Time,
			Temperature: *temp,
		})
	}

	return samples, nil
}
