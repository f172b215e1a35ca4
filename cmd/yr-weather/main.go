package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpapi "github.com/i474232898/yr-weather/internal/api/http"
	"github.com/i474232898/yr-weather/internal/cities"
	"github.com/i474232898/yr-weather/internal/config"
	"github.com/i474232898/yr-weather/internal/metrics"
	"github.com/i474232898/yr-weather/internal/scheduler"
	"github.com/i474232898/yr-weather/internal/store"
	"github.com/i474232898/yr-weather/internal/weather"
	"github.com/i474232898/yr-weather/internal/weather/providers"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	table, err := cities.Load(cfg.CitiesFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CitiesFile).Msg("failed to load city table")
	}
	log.Info().Int("cities", table.Len()).Strs("names", table.Names()).Msg("city table loaded")

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}

	var provider weather.Provider
	switch cfg.Provider {
	case "openmeteo":
		provider = providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL)
	default:
		provider = providers.NewYrProvider(httpClient, cfg.YrBaseURL, cfg.YrUserAgent)
	}

	m := metrics.New()
	memStore := store.NewMemoryStore()
	m.RegisterGauge("cache_entries", "Number of coordinates held in the forecast cache.", func() float64 {
		return float64(memStore.Len())
	})

	// Forecast cache in front of the provider.
	service := weather.NewService(memStore, provider, weather.CacheConfig{
		FreshnessWindow: cfg.FreshnessWindow,
		FetchTimeout:    cfg.UpstreamTimeout,
	}, m)

	normalizer := weather.NewNormalizer(cfg.MaxDecimalPlaces)

	// Warm-up job for configured cities.
	var targets []scheduler.Target
	for _, name := range cfg.WarmCities {
		coord, err := table.Resolve(name, normalizer)
		if err != nil {
			log.Warn().Err(err).Str("city", name).Msg("skipping warm city")
			continue
		}
		targets = append(targets, scheduler.Target{Name: name, Coord: coord})
	}
	sched := scheduler.New(targets, cfg.WarmInterval, cfg.UpstreamTimeout, service)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "yr-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.UpstreamTimeout + 5*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
	}))
	app.Use(m.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "yr-weather",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	handler := httpapi.NewHandler(service, table, httpapi.Options{
		Normalizer:           normalizer,
		CheckCoordinateRange: cfg.CheckCoordinateRange,
		TargetHour:           cfg.TargetHour,
		Location:             cfg.Location,
		DefaultLanguage:      cfg.DefaultLanguage,
	})
	httpapi.RegisterRoutes(app, handler)

	go func() {
		log.Info().Str("port", cfg.Port).Str("provider", provider.Name()).Msg("server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}

func setupLogger(cfg *config.AppConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "json" {
		zerolog.TimeFieldFormat = time.RFC3339
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
