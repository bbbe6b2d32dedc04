package queries

import (
	"context"

	"fooddelivery/internal/core/ports"
)

// FindAvailableRidersQueryHandler answers through the rider directory rather than SQL:
// proximity is the directory's job, and this keeps one implementation of it.
type FindAvailableRidersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewFindAvailableRidersQueryHandler(uowFactory ports.UnitOfWorkFactory) FindAvailableRidersQueryHandler {
	return FindAvailableRidersQueryHandler{uowFactory: uowFactory}
}

func (h FindAvailableRidersQueryHandler) Handle(
	ctx context.Context,
	query FindAvailableRidersQuery,
) ([]AvailableRiderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	nearby, err := h.uowFactory.Create().RiderRepository().FindAvailable(ctx, query.origin, query.radiusMeters, query.limit)
	if err != nil {
		return nil, err
	}

	riders := make([]AvailableRiderResponse, 0, len(nearby))
	for _, n := range nearby {
		riders = append(riders, AvailableRiderResponse{
			ID:             n.Rider.ID(),
			Location:       n.Rider.Location(),
			LastUpdated:    n.Rider.LastUpdated(),
			DistanceMeters: n.DistanceMeters,
		})
	}
	return riders, nil
}
