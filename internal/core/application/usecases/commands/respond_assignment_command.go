package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrRespondAssignmentCommandIsNotConstructed = errors.New(
	"RespondAssignmentCommand must be created via NewRespondAssignmentCommand constructor",
)

// RespondAssignmentCommand is the proposed rider's answer to a proposal. The same
// command feeds AcceptAssignmentCommandHandler and DeclineAssignmentCommandHandler.
type RespondAssignmentCommand struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewRespondAssignmentCommand(orderID kernel.UUID, actor kernel.Actor) (RespondAssignmentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RespondAssignmentCommand{}, err
	}
	return RespondAssignmentCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RespondAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRespondAssignmentCommandIsNotConstructed)
}
