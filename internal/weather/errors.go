package weather

import "errors"

var (
	// ErrInvalidCoordinateFormat is returned when a coordinate component is not a
	// plain decimal number such as "55.7522" or "-0,5".
	ErrInvalidCoordinateFormat = errors.New("invalid coordinate characters")

	// ErrCoordinateOutOfRange is returned when latitude or longitude falls outside
	// the valid geographic range.
	ErrCoordinateOutOfRange = errors.New("coordinate out of range")

	// ErrUpstreamFetch wraps any failure to obtain a usable forecast from a provider.
	ErrUpstreamFetch = errors.New("failed to fetch weather forecast")

	// ErrCoordinateRejected indicates the provider refused the coordinate itself.
	ErrCoordinateRejected = errors.New("coordinate rejected by provider")
)
