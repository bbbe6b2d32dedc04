package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels an order. When a rider held it, the rider's claim is
// released in the same transaction, so the rider is available again if that was its only order.
//
// A cancel racing a claim is settled by whichever write lands first: the loser sees
// order.ErrIllegalTransition or order.ErrAlreadyAssigned.
type CancelOrderCommandHandler struct {
	uowFactory AssignmentUoWFactory
}

func NewCancelOrderCommandHandler(uowFactory AssignmentUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (*order.Order, error) {
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

	releasedRider, err := o.Cancel(command.actor, command.reason, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, orderConflict(err)
	}

	if releasedRider != nil {
		riderRepo := uow.RiderRepository()
		r, getErr := riderRepo.Get(ctx, *releasedRider)
		if getErr != nil {
			return nil, getErr
		}
		r.ReleaseOrder(o.ID())
		if err = riderRepo.Update(ctx, r); err != nil {
			return nil, riderConflict(err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
