package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
)

// CreateOrderCommandHandler persists a newly placed order. The order leaves Created
// immediately: to payment_pending, or to confirmed for cash on delivery.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(
		command.orderID,
		command.customerID,
		command.restaurantID,
		command.items,
		command.pickup,
		command.delivery,
		command.method,
		command.actor,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
