package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/yr-weather/internal/cities"
	"github.com/i474232898/yr-weather/internal/weather"
)

var validate = validator.New()

// ForecastService is the part of weather.Service the HTTP layer needs.
type ForecastService interface {
	GetForecast(ctx context.Context, coord weather.Coordinate) ([]weather.Sample, error)
}

// Options tunes how requests are resolved and how forecasts are sampled.
type Options struct {
	Normalizer           weather.Normalizer
	CheckCoordinateRange bool
	TargetHour           int
	Location             *time.Location
	DefaultLanguage      string
}

// Handler serves the daily weather endpoint.
type Handler struct {
	service ForecastService
	cities  *cities.Table
	opts    Options
	i18n    localizer
}

func NewHandler(service ForecastService, table *cities.Table, opts Options) *Handler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Handler{
		service: service,
		cities:  table,
		opts:    opts,
		i18n:    newLocalizer(opts.DefaultLanguage),
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(r fiber.Router, h *Handler) {
	r.Get("/weather", h.getWeather)
}

// weatherQuery holds the query parameters of the weather endpoint. Either a
// city or both coordinates must be present.
type weatherQuery struct {
	City string
	Lat  string `validate:"required_without=City"`
	Lon  string `validate:"required_without=City"`
}

func (h *Handler) getWeather(c *fiber.Ctx) error {
	lang := h.i18n.lang(c.Query("lang"), c.Get(fiber.HeaderAcceptLanguage))
	fail := func(code int, key messageKey) error {
		return fiber.NewError(code, h.i18n.message(lang, key))
	}

	q := weatherQuery{
		City: utils.CopyString(c.Query("city")),
		Lat:  utils.CopyString(c.Query("lat")),
		Lon:  utils.CopyString(c.Query("lon")),
	}
	if err := validate.Struct(q); err != nil {
		return fail(fiber.StatusBadRequest, msgEmptyForm)
	}

	coord, err := h.resolve(q)
	if err != nil {
		switch {
		case errors.Is(err, cities.ErrUnknownCity):
			return fail(fiber.StatusNotFound, msgUnknownCity)
		case q.City != "":
			log.Error().Err(err).Str("city", q.City).Msg("httpapi: city table entry is not a valid coordinate")
			return fail(fiber.StatusInternalServerError, msgInternal)
		case errors.Is(err, weather.ErrCoordinateOutOfRange):
			return fail(fiber.StatusBadRequest, msgOutOfRange)
		default:
			return fail(fiber.StatusBadRequest, msgInvalidCoordinates)
		}
	}

	samples, err := h.service.GetForecast(c.UserContext(), coord)
	if err != nil {
		if errors.Is(err, weather.ErrCoordinateRejected) {
			return fail(fiber.StatusBadRequest, msgRejected)
		}
		log.Error().Err(err).Str("key", coord.Key()).Msg("httpapi: forecast unavailable")
		return fail(fiber.StatusInternalServerError, msgFetchFailed)
	}

	readings := weather.ExtractDailyReadings(samples, h.opts.TargetHour, h.opts.Location)
	return c.JSON(fiber.Map{
		"weather": readings,
	})
}

// resolve turns the query into a normalized coordinate. A city takes
// precedence over explicit coordinates.
func (h *Handler) resolve(q weatherQuery) (weather.Coordinate, error) {
	var (
		coord weather.Coordinate
		err   error
	)
	if q.City != "" {
		coord, err = h.cities.Resolve(q.City, h.opts.Normalizer)
	} else {
		coord, err = h.opts.Normalizer.Normalize(q.Lat, q.Lon)
	}
	if err != nil {
		return weather.Coordinate{}, err
	}

	if h.opts.CheckCoordinateRange {
		if validate.Var(coord.Lat, "latitude") != nil || validate.Var(coord.Lon, "longitude") != nil {
			return weather.Coordinate{}, weather.ErrCoordinateOutOfRange
		}
	}
	return coord, nil
}

// ErrorHandler renders every error as {"error": "<message>"}. Only *fiber.Error
// messages reach the client; anything else becomes a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := catalog["en"][msgInternal]

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("httpapi: unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
