package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/rider"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrRegisterRiderCommandIsNotConstructed = errors.New(
		"RegisterRiderCommand must be created via NewRegisterRiderCommand constructor",
	)
	ErrUpdateRiderLocationCommandIsNotConstructed = errors.New(
		"UpdateRiderLocationCommand must be created via NewUpdateRiderLocationCommand constructor",
	)
	ErrSetRiderStatusCommandIsNotConstructed = errors.New(
		"SetRiderStatusCommand must be created via NewSetRiderStatusCommand constructor",
	)
)

// RegisterRiderCommand adds a rider to the directory. Riders register themselves;
// admins may register on their behalf.
type RegisterRiderCommand struct {
	riderID  kernel.UUID
	userID   kernel.UUID
	location kernel.Location

	guard guard.ConstructorGuard
}

func NewRegisterRiderCommand(
	riderID, userID kernel.UUID,
	location kernel.Location,
	actor kernel.Actor,
) (RegisterRiderCommand, error) {
	if err := errors.Join(riderID.Validate(), userID.Validate(), location.Validate()); err != nil {
		return RegisterRiderCommand{}, err
	}
	if err := actsFor(actor, riderID); err != nil {
		return RegisterRiderCommand{}, err
	}
	return RegisterRiderCommand{
		riderID:  riderID,
		userID:   userID,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterRiderCommand) Validate() error {
	return c.guard.Validate(ErrRegisterRiderCommandIsNotConstructed)
}

// UpdateRiderLocationCommand is a rider's position report. Only the rider reports its own position.
type UpdateRiderLocationCommand struct {
	riderID  kernel.UUID
	location kernel.Location

	guard guard.ConstructorGuard
}

func NewUpdateRiderLocationCommand(
	riderID kernel.UUID,
	location kernel.Location,
	actor kernel.Actor,
) (UpdateRiderLocationCommand, error) {
	if err := errors.Join(riderID.Validate(), location.Validate()); err != nil {
		return UpdateRiderLocationCommand{}, err
	}
	if !actor.Is(kernel.RoleRider) || !actor.ID().IsEqual(riderID) {
		return UpdateRiderLocationCommand{}, ErrActorMismatch
	}
	return UpdateRiderLocationCommand{
		riderID:  riderID,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateRiderLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateRiderLocationCommandIsNotConstructed)
}

// SetRiderStatusCommand takes a rider on or off shift.
type SetRiderStatusCommand struct {
	riderID kernel.UUID
	status  rider.Status

	guard guard.ConstructorGuard
}

func NewSetRiderStatusCommand(riderID kernel.UUID, status rider.Status, actor kernel.Actor) (SetRiderStatusCommand, error) {
	if err := errors.Join(riderID.Validate(), status.Validate()); err != nil {
		return SetRiderStatusCommand{}, err
	}
	if err := actsFor(actor, riderID); err != nil {
		return SetRiderStatusCommand{}, err
	}
	return SetRiderStatusCommand{
		riderID: riderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SetRiderStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetRiderStatusCommandIsNotConstructed)
}

func actsFor(actor kernel.Actor, riderID kernel.UUID) error {
	if actor.Is(kernel.RoleAdmin) {
		return nil
	}
	if actor.Is(kernel.RoleRider) && actor.ID().IsEqual(riderID) {
		return nil
	}
	return ErrActorMismatch
}
