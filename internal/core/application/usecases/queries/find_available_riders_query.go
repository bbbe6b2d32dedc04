package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrFindAvailableRidersQueryIsNotConstructed = errors.New(
	"FindAvailableRidersQuery must be created via NewFindAvailableRidersQuery constructor",
)

const (
	maxSearchRadiusMeters = 50_000
	maxSearchLimit        = 100
)

// FindAvailableRidersQuery asks the rider directory who is available near a point.
type FindAvailableRidersQuery struct {
	origin       kernel.Location
	radiusMeters float64
	limit        int
	guard        guard.ConstructorGuard
}

func NewFindAvailableRidersQuery(origin kernel.Location, radiusMeters float64, limit int) (FindAvailableRidersQuery, error) {
	if err := origin.Validate(); err != nil {
		return FindAvailableRidersQuery{}, err
	}
	if radiusMeters <= 0 || radiusMeters > maxSearchRadiusMeters {
		return FindAvailableRidersQuery{}, errs.NewValueIsOutOfRangeError("radius", radiusMeters, 1, maxSearchRadiusMeters)
	}
	if limit <= 0 || limit > maxSearchLimit {
		return FindAvailableRidersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxSearchLimit)
	}

	return FindAvailableRidersQuery{
		origin:       origin,
		radiusMeters: radiusMeters,
		limit:        limit,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q FindAvailableRidersQuery) Validate() error {
	return q.guard.Validate(ErrFindAvailableRidersQueryIsNotConstructed)
}

type AvailableRiderResponse struct {
	ID             kernel.UUID
	Location       kernel.Location
	LastUpdated    time.Time
	DistanceMeters float64
}
