package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/rider"
	"fooddelivery/internal/core/domain/services"
)

// ProposeAssignmentCommandHandler and ClaimOrderCommandHandler share one flow: load
// both aggregates inside a transaction, let the coordinator assign in memory, then
// persist the order with the conditional claim update. Of any number of concurrent
// claims and proposals for the same order exactly one commits; every other caller
// gets order.ErrAlreadyAssigned (or order.ErrIllegalTransition if the order left the
// pool some other way) and the rider it named is left untouched.
type ProposeAssignmentCommandHandler struct {
	uowFactory  AssignmentUoWFactory
	coordinator services.AssignmentCoordinator
}

func NewProposeAssignmentCommandHandler(
	uowFactory AssignmentUoWFactory,
	coordinator services.AssignmentCoordinator,
) ProposeAssignmentCommandHandler {
	return ProposeAssignmentCommandHandler{uowFactory: uowFactory, coordinator: coordinator}
}

func (h ProposeAssignmentCommandHandler) Handle(
	ctx context.Context,
	command ProposeAssignmentCommand,
) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return assign(ctx, h.uowFactory, command.orderID, command.riderID, command.actor, h.coordinator.Propose)
}

type ClaimOrderCommandHandler struct {
	uowFactory  AssignmentUoWFactory
	coordinator services.AssignmentCoordinator
}

func NewClaimOrderCommandHandler(
	uowFactory AssignmentUoWFactory,
	coordinator services.AssignmentCoordinator,
) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{uowFactory: uowFactory, coordinator: coordinator}
}

func (h ClaimOrderCommandHandler) Handle(ctx context.Context, command ClaimOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return assign(ctx, h.uowFactory, command.orderID, command.actor.ID(), command.actor, h.coordinator.Claim)
}

type assignFunc func(o *order.Order, r *rider.Rider, actor kernel.Actor, now time.Time) error

func assign(
	ctx context.Context,
	uowFactory AssignmentUoWFactory,
	orderID, riderID kernel.UUID,
	actor kernel.Actor,
	apply assignFunc,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	riderRepo := uow.RiderRepository()

	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	r, err := riderRepo.Get(ctx, riderID)
	if err != nil {
		return nil, err
	}

	if err = apply(o, r, actor, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = orderRepo.Claim(ctx, o); err != nil {
		return nil, err
	}
	if err = riderRepo.Update(ctx, r); err != nil {
		return nil, riderConflict(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
