package order

import (
	"errors"
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Domain errors for order operations. All transition rejections unwrap to
// errs.ErrIllegalTransition; ErrAlreadyAssigned is an expected outcome of a lost claim race.
var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrIllegalTransition is returned when the current status has no edge to the requested one.
	ErrIllegalTransition = fmt.Errorf("%w: illegal order transition", errs.ErrIllegalTransition)

	// ErrUnauthorizedTransition is returned when the edge exists but the actor may not fire it.
	ErrUnauthorizedTransition = fmt.Errorf("%w: unauthorized transition", errs.ErrIllegalTransition)

	// ErrNotAssignedRider is returned when a rider acts on an order assigned to someone else.
	ErrNotAssignedRider = fmt.Errorf("%w: not the assigned rider", errs.ErrIllegalTransition)

	// ErrProposalExpired is returned when a rider accepts after the acceptance window closed.
	ErrProposalExpired = fmt.Errorf("%w: assignment proposal expired", errs.ErrIllegalTransition)

	// ErrAlreadyAssigned is returned to every claimant but the first.
	ErrAlreadyAssigned = errors.New("order already assigned")

	// ErrItemsAreRequired is returned when an order is created without line items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)
