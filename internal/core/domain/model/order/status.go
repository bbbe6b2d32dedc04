package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Created ──> PaymentPending ──> Confirmed ──> Preparing ──> ReadyForPickup ──> Assigned ──> PickedUp ──> Delivered
//	   │                              ▲                              ▲                │
//	   └──────── (cash on delivery) ──┘                              └── (release) ───┘
//
// Cancelled is reachable from every state except Delivered and Cancelled.
// The numeric values are persisted; never reorder them.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Created is the transient initial status; NewOrder moves the order on immediately.
	Created

	// PaymentPending orders wait for the payment verification gate.
	PaymentPending

	// Confirmed orders are paid (or cash on delivery) and wait for the kitchen.
	Confirmed

	// Preparing is set by the restaurant when cooking starts.
	Preparing

	// ReadyForPickup orders without a rider form the assignable pool.
	ReadyForPickup

	// Assigned orders are held by exactly one rider, possibly awaiting acceptance.
	Assigned

	// PickedUp orders are on their way to the customer.
	PickedUp

	// Delivered is final.
	Delivered

	// Cancelled is final.
	Cancelled
)

var statusNames = map[Status]string{
	Created:        "created",
	PaymentPending: "payment_pending",
	Confirmed:      "confirmed",
	Preparing:      "preparing",
	ReadyForPickup: "ready_for_pickup",
	Assigned:       "assigned",
	PickedUp:       "picked_up",
	Delivered:      "delivered",
	Cancelled:      "cancelled",
}

// ParseStatus converts the wire name of a status ("ready_for_pickup") into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks the status is one of the named states. Unknown (0) is invalid.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, or "unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no transition leaves the status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// HoldsRider reports whether an order in this status keeps a rider busy.
func (s Status) HoldsRider() bool {
	return s == Assigned || s == PickedUp
}

// validateCanHaveRider checks the consistency between status and rider assignment.
// Cancelled orders may or may not remember the rider they had.
func (s Status) validateCanHaveRider(hasRider bool) error {
	switch s {
	case Assigned, PickedUp, Delivered:
		if !hasRider {
			return errs.NewValueIsInvalidErrorWithCause("status is invalid",
				fmt.Errorf("%s is not a valid status to have no rider", s))
		}
	case Cancelled:
	default:
		if hasRider {
			return errs.NewValueIsInvalidErrorWithCause("status is invalid",
				fmt.Errorf("%s is not a valid status to have a rider", s))
		}
	}
	return nil
}
