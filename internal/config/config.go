package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/yr-weather/internal/common"
	"github.com/i474232898/yr-weather/internal/weather"
	"github.com/i474232898/yr-weather/internal/weather/providers"
)

var validate = validator.New()

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// Forecast provider: "yr" (MET Norway) or "openmeteo".
	Provider         string `validate:"oneof=yr openmeteo"`
	YrBaseURL        string `validate:"required,url"`
	YrUserAgent      string `validate:"required"`
	OpenMeteoBaseURL string `validate:"required,url"`

	// UpstreamTimeout bounds one provider call.
	UpstreamTimeout time.Duration `validate:"gt=0"`

	// Forecast cache and normalization.
	FreshnessWindow      time.Duration `validate:"gt=0"`
	MaxDecimalPlaces     int           `validate:"min=1,max=12"`
	CheckCoordinateRange bool

	// Daily sampling.
	TargetHour int            `validate:"min=0,max=23"`
	Location   *time.Location `validate:"required"`

	CitiesFile      string
	DefaultLanguage string `validate:"oneof=en ru"`

	// Cache warm-up; nothing is scheduled when WarmCities is empty.
	WarmCities   []string
	WarmInterval time.Duration `validate:"gt=0"`

	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=console json"`
}

// Load reads configuration from environment (and an optional .env file) with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("config: no .env file loaded")
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.Provider = strings.ToLower(getenvDefault("FORECAST_PROVIDER", "yr"))
	cfg.YrBaseURL = getenvDefault("YR_BASE_URL", providers.DefaultYrBaseURL)
	cfg.YrUserAgent = getenvDefault("YR_USER_AGENT", "yr-weather/0.1")
	cfg.OpenMeteoBaseURL = getenvDefault("OPENMETEO_BASE_URL", providers.DefaultOpenMeteoBaseURL)

	timeout, err := time.ParseDuration(getenvDefault("UPSTREAM_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}
	cfg.UpstreamTimeout = timeout

	freshness, err := getenvInt("FRESHNESS_MINUTES", int(weather.DefaultFreshnessWindow/time.Minute))
	if err != nil {
		return nil, err
	}
	cfg.FreshnessWindow = time.Duration(freshness) * time.Minute

	if cfg.MaxDecimalPlaces, err = getenvInt("MAX_DECIMAL_PLACES", weather.DefaultMaxDecimalPlaces); err != nil {
		return nil, err
	}
	if cfg.TargetHour, err = getenvInt("TARGET_HOUR", weather.DefaultTargetHour); err != nil {
		return nil, err
	}

	cfg.CheckCoordinateRange, err = strconv.ParseBool(getenvDefault("CHECK_COORDINATE_RANGE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECK_COORDINATE_RANGE: %w", err)
	}

	cfg.Location, err = time.LoadLocation(getenvDefault("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.CitiesFile = os.Getenv("CITIES_FILE")
	cfg.DefaultLanguage = strings.ToLower(getenvDefault("DEFAULT_LANGUAGE", "en"))

	cfg.WarmCities = common.SplitList(os.Getenv("WARM_CITIES"))
	warmInterval, err := time.ParseDuration(getenvDefault("WARM_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid WARM_INTERVAL: %w", err)
	}
	cfg.WarmInterval = warmInterval

	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "console"))

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
