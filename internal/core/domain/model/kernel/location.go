package kernel

import (
	"errors"
	"fmt"
	"math"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

const (
	LongitudeMin = -180.0
	LongitudeMax = 180.0
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0

	// earthRadiusMeters is the mean radius used by the haversine formula.
	earthRadiusMeters = 6371000.0
)

var (
	// ErrInvalidCoordinates is wrapped by every coordinate range violation.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrLocationIsNotConstructed is returned when the zero Location is used.
	ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
		"location must be created via NewLocation")
)

// Location is a geographic point stored as [longitude, latitude] in degrees.
// It is an immutable value object; the zero value fails Validate.
//
// Example:
//
//	loc, err := kernel.NewLocation(77.5946, 12.9716)
//	if err != nil {
//	    // longitude or latitude out of range
//	}
//	fmt.Println(loc) // Location(77.594600,12.971600)
type Location struct { //nolint:recvcheck //using for validation
	longitude float64
	latitude  float64
	guard     guard.ConstructorGuard
}

// NewLocation validates both coordinates and returns the point.
// Errors wrap ErrInvalidCoordinates and errs.ErrValueIsOutOfRange.
func NewLocation(longitude, latitude float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLongitude(longitude), loc.setLatitude(latitude)); err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrInvalidCoordinates, err)
	}

	return loc, nil
}

func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Longitude() float64 {
	return l.longitude
}

func (l Location) Latitude() float64 {
	return l.latitude
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%f,%f)", l.longitude, l.latitude)
}

// IsEqual reports whether both points carry the same coordinates.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.longitude == other.longitude && l.latitude == other.latitude, nil
}

// DistanceTo returns the great-circle distance in meters using the haversine formula.
//
// Example:
//
//	restaurant, _ := kernel.NewLocation(77.5946, 12.9716)
//	customer, _ := kernel.NewLocation(77.6101, 12.9352)
//	meters, _ := restaurant.DistanceTo(customer) // ~4.3 km
func (l Location) DistanceTo(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := degreesToRadians(l.latitude)
	lat2 := degreesToRadians(other.latitude)
	dLat := degreesToRadians(other.latitude - l.latitude)
	dLon := degreesToRadians(other.longitude - l.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c, nil
}

func (l *Location) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	l.longitude = longitude
	return nil
}

func (l *Location) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	l.latitude = latitude
	return nil
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}
