package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrProposeAssignmentCommandIsNotConstructed = errors.New(
	"ProposeAssignmentCommand must be created via NewProposeAssignmentCommand constructor",
)

// ProposeAssignmentCommand offers a ready order to a specific rider. The rider has the
// acceptance window to accept before the proposal lapses.
type ProposeAssignmentCommand struct {
	orderID kernel.UUID
	riderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewProposeAssignmentCommand(orderID, riderID kernel.UUID, actor kernel.Actor) (ProposeAssignmentCommand, error) {
	if err := errors.Join(orderID.Validate(), riderID.Validate()); err != nil {
		return ProposeAssignmentCommand{}, err
	}
	return ProposeAssignmentCommand{
		orderID: orderID,
		riderID: riderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ProposeAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrProposeAssignmentCommandIsNotConstructed)
}
