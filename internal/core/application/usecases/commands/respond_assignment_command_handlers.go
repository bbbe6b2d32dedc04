package commands

import (
	"context"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
)

// AcceptAssignmentCommandHandler records that the proposed rider accepted the order.
// Accepting after the window has passed returns order.ErrProposalExpired.
type AcceptAssignmentCommandHandler struct {
	uowFactory  OrderUoWFactory
	coordinator services.AssignmentCoordinator
}

func NewAcceptAssignmentCommandHandler(
	uowFactory OrderUoWFactory,
	coordinator services.AssignmentCoordinator,
) AcceptAssignmentCommandHandler {
	return AcceptAssignmentCommandHandler{uowFactory: uowFactory, coordinator: coordinator}
}

func (h AcceptAssignmentCommandHandler) Handle(
	ctx context.Context,
	command RespondAssignmentCommand,
) (*order.Order, error) {
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

	if err = h.coordinator.Accept(o, command.actor, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, orderConflict(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

// DeclineAssignmentCommandHandler returns a proposed order to the pool and frees the rider.
// A decline that exhausts the proposal budget escalates the order.
type DeclineAssignmentCommandHandler struct {
	uowFactory  AssignmentUoWFactory
	coordinator services.AssignmentCoordinator
}

func NewDeclineAssignmentCommandHandler(
	uowFactory AssignmentUoWFactory,
	coordinator services.AssignmentCoordinator,
) DeclineAssignmentCommandHandler {
	return DeclineAssignmentCommandHandler{uowFactory: uowFactory, coordinator: coordinator}
}

func (h DeclineAssignmentCommandHandler) Handle(
	ctx context.Context,
	command RespondAssignmentCommand,
) (*order.Order, error) {
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
	riderRepo := uow.RiderRepository()

	o, err := orderRepo.Get(ctx, command.orderID)
	if err != nil {
		return nil, err
	}
	riderID := o.RiderID()
	if riderID == nil {
		return nil, fmt.Errorf("%w: %s order has no proposal to decline", order.ErrIllegalTransition, o.Status())
	}
	r, err := riderRepo.Get(ctx, *riderID)
	if err != nil {
		return nil, err
	}

	if _, err = h.coordinator.Decline(o, r, command.actor, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, orderConflict(err)
	}
	if err = riderRepo.Update(ctx, r); err != nil {
		return nil, riderConflict(err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
