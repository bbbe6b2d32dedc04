package commands

import (
	"errors"
	"fmt"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/rider"
	"fooddelivery/internal/pkg/errs"
)

var (
	// ErrNoAssignableOrder is returned by auto-dispatch when the pool holds nothing to dispatch.
	ErrNoAssignableOrder = errors.New("no assignable order")

	// ErrActorMismatch is returned when an actor tries to act on behalf of another identity.
	ErrActorMismatch = fmt.Errorf("%w: actor may only act for itself", order.ErrUnauthorizedTransition)
)

// orderConflict turns a lost optimistic update into the transition error the actor sees:
// someone else moved the order first, so the request no longer matches its predecessor state.
func orderConflict(err error) error {
	if errors.Is(err, errs.ErrVersionIsInvalid) {
		return fmt.Errorf("%w: order changed concurrently (%w)", order.ErrIllegalTransition, err)
	}
	return err
}

func riderConflict(err error) error {
	if errors.Is(err, errs.ErrVersionIsInvalid) {
		return fmt.Errorf("%w: rider changed concurrently (%w)", rider.ErrIllegalTransition, err)
	}
	return err
}
