package commands

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/rider"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"
)

// AutoDispatchCommandHandler offers each pooled order to the nearest available rider
// that has not declined it.
//
// The geo query runs outside the transaction; the proposal itself reloads both aggregates
// and goes through the conditional claim, so a rider or restaurant claiming the same order
// in between simply wins and the order is skipped. Orders with no candidate in range stay
// in the pool for the next tick.
type AutoDispatchCommandHandler struct {
	uowFactory  AssignmentUoWFactory
	coordinator services.AssignmentCoordinator
}

func NewAutoDispatchCommandHandler(
	uowFactory AssignmentUoWFactory,
	coordinator services.AssignmentCoordinator,
) AutoDispatchCommandHandler {
	return AutoDispatchCommandHandler{uowFactory: uowFactory, coordinator: coordinator}
}

// Handle returns how many orders were proposed. ErrNoAssignableOrder is returned when the
// pool is empty.
func (h AutoDispatchCommandHandler) Handle(ctx context.Context, command AutoDispatchCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	reader := h.uowFactory.Create()
	pool, err := reader.OrderRepository().ListForDispatch(ctx, command.batchSize)
	if err != nil {
		return 0, err
	}
	if len(pool) == 0 {
		return 0, ErrNoAssignableOrder
	}

	proposed := 0
	for _, o := range pool {
		nearby, findErr := reader.RiderRepository().FindAvailable(
			ctx, o.Pickup(), command.radiusMeters, command.candidateLimit,
		)
		if findErr != nil {
			return proposed, findErr
		}

		candidate, selectErr := h.coordinator.SelectCandidate(o, nearby)
		if errors.Is(selectErr, services.ErrNoCandidate) {
			continue
		}
		if selectErr != nil {
			return proposed, selectErr
		}

		err = h.propose(ctx, o.ID(), candidate.ID())
		switch {
		case err == nil:
			proposed++
		case errors.Is(err, services.ErrNoCandidate),
			errors.Is(err, order.ErrAlreadyAssigned),
			errs.IsTransitionRejected(err):
			continue
		default:
			return proposed, err
		}
	}
	return proposed, nil
}

func (h AutoDispatchCommandHandler) propose(ctx context.Context, orderID, riderID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	riderRepo := uow.RiderRepository()

	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	r, err := riderRepo.Get(ctx, riderID)
	if err != nil {
		return err
	}
	if o.IsEscalated() || o.HasDeclined(r.ID()) || r.Status() != rider.StatusAvailable {
		return services.ErrNoCandidate
	}

	if err = h.coordinator.Propose(o, r, kernel.DispatcherActor(), time.Now().UTC()); err != nil {
		return err
	}
	if err = orderRepo.Claim(ctx, o); err != nil {
		return err
	}
	if err = riderRepo.Update(ctx, r); err != nil {
		return riderConflict(err)
	}

	return uow.Commit(ctx)
}
