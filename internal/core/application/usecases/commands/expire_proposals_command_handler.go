package commands

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"
)

// ExpireProposalsCommandHandler releases lapsed proposals back to the pool, one
// transaction per order. Orders that were accepted, declined or otherwise moved since
// the sweep listed them are skipped.
type ExpireProposalsCommandHandler struct {
	uowFactory  AssignmentUoWFactory
	coordinator services.AssignmentCoordinator
}

func NewExpireProposalsCommandHandler(
	uowFactory AssignmentUoWFactory,
	coordinator services.AssignmentCoordinator,
) ExpireProposalsCommandHandler {
	return ExpireProposalsCommandHandler{uowFactory: uowFactory, coordinator: coordinator}
}

// Handle returns how many proposals were expired.
func (h ExpireProposalsCommandHandler) Handle(ctx context.Context, command ExpireProposalsCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	window := h.coordinator.Policy().AcceptanceWindow
	if window <= 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	lapsed, err := h.uowFactory.Create().OrderRepository().ListProposalsBefore(ctx, now.Add(-window), command.limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, o := range lapsed {
		err = h.expire(ctx, o.ID(), now)
		switch {
		case err == nil:
			expired++
		case errs.IsTransitionRejected(err), errors.Is(err, services.ErrRiderMismatch):
			continue
		default:
			return expired, err
		}
	}
	return expired, nil
}

func (h ExpireProposalsCommandHandler) expire(ctx context.Context, orderID kernel.UUID, now time.Time) error {
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
	riderID := o.RiderID()
	if riderID == nil {
		return services.ErrProposalNotExpired
	}
	r, err := riderRepo.Get(ctx, *riderID)
	if err != nil {
		return err
	}

	if _, err = h.coordinator.Expire(o, r, now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return orderConflict(err)
	}
	if err = riderRepo.Update(ctx, r); err != nil {
		return riderConflict(err)
	}

	return uow.Commit(ctx)
}
