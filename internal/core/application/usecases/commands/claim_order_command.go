package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand is a rider taking a ready order from the pool for itself.
type ClaimOrderCommand struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewClaimOrderCommand(orderID kernel.UUID, actor kernel.Actor) (ClaimOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ClaimOrderCommand{}, err
	}
	if !actor.Is(kernel.RoleRider) {
		return ClaimOrderCommand{}, ErrActorMismatch
	}
	return ClaimOrderCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}
