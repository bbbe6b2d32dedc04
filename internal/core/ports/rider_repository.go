package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/rider"
)

// RiderRepository is the geospatial rider directory. It is the only component that
// answers "who is near"; callers never filter riders by distance themselves.
type RiderRepository interface {
	// Add registers a rider. A user account maps to at most one rider.
	Add(ctx context.Context, aggregate *rider.Rider) error

	// Update persists status and assigned orders, guarded by the rider's version.
	// A stale version returns errs.ErrVersionIsInvalid.
	Update(ctx context.Context, aggregate *rider.Rider) error

	// Get retrieves a rider. Returns errs.ErrObjectNotFound when missing.
	Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error)

	// UpdateLocation overwrites position and last-updated time only, so location
	// reports never conflict with status or assignment writes.
	UpdateLocation(ctx context.Context, id kernel.UUID, location kernel.Location, at time.Time) error

	// FindAvailable returns available riders within radiusMeters of origin, nearest first,
	// at most limit of them. An empty result is not an error. The search is index backed
	// and fails with errs.ErrUpstreamUnavailable when it does not answer in time.
	FindAvailable(ctx context.Context, origin kernel.Location, radiusMeters float64, limit int) ([]rider.Nearby, error)
}
