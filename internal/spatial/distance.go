package spatial

import (
	"errors"

	"github.com/golang/geo/s2"
)

// ErrInvalidCoordinate is returned for a latitude/longitude pair outside
// [-90, 90] x [-180, 180].
var ErrInvalidCoordinate = errors.New("coordinate out of range")

// ErrPartialCoordinate is returned when only one of latitude and longitude is set.
var ErrPartialCoordinate = errors.New("latitude and longitude must be given together")

// ValidateCoordinate checks an optional coordinate pair. Both nil is valid.
func ValidateCoordinate(lat, lon *float64) error {
	if lat == nil && lon == nil {
		return nil
	}
	if lat == nil || lon == nil {
		return ErrPartialCoordinate
	}
	if !s2.LatLngFromDegrees(*lat, *lon).IsValid() {
		return ErrInvalidCoordinate
	}
	return nil
}
