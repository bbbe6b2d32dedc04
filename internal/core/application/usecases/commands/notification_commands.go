package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrRelayNotificationsCommandIsNotConstructed = errors.New(
		"RelayNotificationsCommand must be created via NewRelayNotificationsCommand constructor",
	)
	ErrMarkNotificationReadCommandIsNotConstructed = errors.New(
		"MarkNotificationReadCommand must be created via NewMarkNotificationReadCommand constructor",
	)
)

// RelayNotificationsCommand hands up to limit pending notifications to the sink.
type RelayNotificationsCommand struct {
	limit int

	guard guard.ConstructorGuard
}

func NewRelayNotificationsCommand(limit int) (RelayNotificationsCommand, error) {
	if limit <= 0 {
		return RelayNotificationsCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return RelayNotificationsCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrRelayNotificationsCommandIsNotConstructed)
}

type MarkNotificationReadCommand struct {
	notificationID kernel.UUID
	actor          kernel.Actor

	guard guard.ConstructorGuard
}

func NewMarkNotificationReadCommand(notificationID kernel.UUID, actor kernel.Actor) (MarkNotificationReadCommand, error) {
	if err := notificationID.Validate(); err != nil {
		return MarkNotificationReadCommand{}, err
	}
	if !actor.Is(kernel.RoleRestaurant) && !actor.Is(kernel.RoleAdmin) {
		return MarkNotificationReadCommand{}, ErrActorMismatch
	}
	return MarkNotificationReadCommand{
		notificationID: notificationID,
		actor:          actor,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c MarkNotificationReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkNotificationReadCommandIsNotConstructed)
}
