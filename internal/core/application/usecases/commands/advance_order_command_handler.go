package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
)

// AdvanceOrderCommandHandler applies an actor-driven transition. Delivering an order
// also releases the rider in the same transaction.
//
// Two concurrent requests for the same edge both pass the in-memory check; the second
// one loses the version check and is reported as order.ErrIllegalTransition.
type AdvanceOrderCommandHandler struct {
	uowFactory  AssignmentUoWFactory
	coordinator services.AssignmentCoordinator
}

func NewAdvanceOrderCommandHandler(
	uowFactory AssignmentUoWFactory,
	coordinator services.AssignmentCoordinator,
) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{uowFactory: uowFactory, coordinator: coordinator}
}

func (h AdvanceOrderCommandHandler) Handle(ctx context.Context, command AdvanceOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, command.orderID)
	if err != nil {
		return nil, err
	}

	if err = o.Transition(command.actor, command.to, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, orderConflict(err)
	}

	if o.Status() == order.Delivered {
		riderRepo := uow.RiderRepository()
		r, getErr := riderRepo.Get(ctx, *o.RiderID())
		if getErr != nil {
			return nil, getErr
		}
		if err = h.coordinator.ReleaseRider(o, r); err != nil {
			return nil, err
		}
		if err = riderRepo.Update(ctx, r); err != nil {
			return nil, riderConflict(err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
