package commands

import (
	"errors"
	"slices"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand places a new order on behalf of a customer (or an admin).
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customer, customer.ID(), restaurantID,
//	    items, restaurantLoc, address, payment.MethodUPI)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct {
	orderID      kernel.UUID
	actor        kernel.Actor
	customerID   kernel.UUID
	restaurantID kernel.UUID
	items        []order.Item
	pickup       kernel.Location
	delivery     order.Address
	method       payment.Method

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	customerID, restaurantID kernel.UUID,
	items []order.Item,
	pickup kernel.Location,
	delivery order.Address,
	method payment.Method,
) (CreateOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		customerID.Validate(),
		restaurantID.Validate(),
		pickup.Validate(),
		delivery.Location().Validate(),
		method.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	if len(items) == 0 {
		return CreateOrderCommand{}, order.ErrItemsAreRequired
	}

	return CreateOrderCommand{
		orderID:      orderID,
		actor:        actor,
		customerID:   customerID,
		restaurantID: restaurantID,
		items:        slices.Clone(items),
		pickup:       pickup,
		delivery:     delivery,
		method:       method,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
