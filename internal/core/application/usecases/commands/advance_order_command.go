package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand moves an order along an actor-driven edge: the kitchen edges
// (preparing, ready_for_pickup) and the rider edges (picked_up, delivered).
type AdvanceOrderCommand struct {
	orderID kernel.UUID
	actor   kernel.Actor
	to      order.Status

	guard guard.ConstructorGuard
}

func NewAdvanceOrderCommand(orderID kernel.UUID, actor kernel.Actor, to order.Status) (AdvanceOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), to.Validate()); err != nil {
		return AdvanceOrderCommand{}, err
	}
	return AdvanceOrderCommand{
		orderID: orderID,
		actor:   actor,
		to:      to,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}
