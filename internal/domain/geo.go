package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate reports construction of a geographic point from
// out-of-range or non-finite values.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// GeoPoint is a validated (longitude, latitude) pair in WGS 84. It is a
// carrier type only; distance math is delegated to the datastore.
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// NewGeoPoint validates and constructs a GeoPoint. Longitude must be within
// [-180, 180] and latitude within [-90, 90]; both must be finite.
func NewGeoPoint(longitude, latitude float64) (GeoPoint, error) {
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) ||
		math.IsNaN(latitude) || math.IsInf(latitude, 0) {
		return GeoPoint{}, fmt.Errorf("%w: values must be finite", ErrInvalidCoordinate)
	}
	if longitude < -180 || longitude > 180 {
		return GeoPoint{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, longitude)
	}
	if latitude < -90 || latitude > 90 {
		return GeoPoint{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, latitude)
	}
	return GeoPoint{Longitude: longitude, Latitude: latitude}, nil
}
