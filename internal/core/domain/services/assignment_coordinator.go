package services

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/rider"
	"fooddelivery/internal/pkg/errs"
)

var (
	// ErrNoCandidate is returned when no nearby rider may be offered the order.
	ErrNoCandidate = errors.New("no candidate rider")

	// ErrProposalNotExpired is returned when expiring a proposal that is still inside its window.
	ErrProposalNotExpired = fmt.Errorf("%w: proposal is still within the acceptance window", errs.ErrIllegalTransition)

	// ErrRiderMismatch is returned when the rider passed in is not the one the order refers to.
	ErrRiderMismatch = errs.NewValueIsInvalidError("rider does not match the order assignment")
)

// AssignmentPolicy holds the tunables of the assignment coordinator.
type AssignmentPolicy struct {
	// AcceptanceWindow is how long a proposed rider has to accept. Zero disables expiry.
	AcceptanceWindow time.Duration
	// MaxProposals is the number of declined or expired proposals after which the order
	// is escalated to manual assignment. Zero disables escalation.
	MaxProposals int
	// RiderCapacity caps the orders a rider holds at once. Zero means unlimited.
	RiderCapacity int
}

// DefaultAssignmentPolicy is used when configuration leaves the policy unset.
func DefaultAssignmentPolicy() AssignmentPolicy {
	return AssignmentPolicy{
		AcceptanceWindow: time.Minute,
		MaxProposals:     3,
		RiderCapacity:    1,
	}
}

// AssignmentCoordinator is the domain service bridging ready orders and riders.
// It changes both aggregates in memory; command handlers persist the order with the
// conditional claim update and the rider with its version, inside one transaction.
//
// Business rules:
//   - Claims and proposals only take orders from the assignable pool
//   - The rider must be on shift and below capacity
//   - Proposals wait for acceptance; declines and expiries return the order to the pool,
//     count as failed, and escalate the order once the policy's limit is reached
//   - Auto-dispatch never offers an order to a rider who already declined it
type AssignmentCoordinator struct {
	policy AssignmentPolicy
}

func NewAssignmentCoordinator(policy AssignmentPolicy) AssignmentCoordinator {
	return AssignmentCoordinator{policy: policy}
}

func (c AssignmentCoordinator) Policy() AssignmentPolicy {
	return c.policy
}

// Claim lets a rider take an order from the pool for itself.
func (c AssignmentCoordinator) Claim(o *order.Order, r *rider.Rider, actor kernel.Actor, now time.Time) error {
	return c.assign(o, r, actor, order.ModeClaim, now)
}

// Propose offers an order to a rider on behalf of a restaurant, an admin or the dispatcher.
func (c AssignmentCoordinator) Propose(o *order.Order, r *rider.Rider, actor kernel.Actor, now time.Time) error {
	return c.assign(o, r, actor, order.ModeProposal, now)
}

// Accept records the proposed rider's acceptance.
func (c AssignmentCoordinator) Accept(o *order.Order, actor kernel.Actor, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return o.AcceptAssignment(actor, c.policy.AcceptanceWindow, now)
}

// Decline is the proposed rider turning the order down. It reports whether the
// order was escalated as a result.
func (c AssignmentCoordinator) Decline(o *order.Order, r *rider.Rider, actor kernel.Actor, now time.Time) (bool, error) {
	return c.release(o, r, actor, "declined", now)
}

// Expire releases a proposal the rider left unanswered past the acceptance window.
func (c AssignmentCoordinator) Expire(o *order.Order, r *rider.Rider, now time.Time) (bool, error) {
	if !o.IsProposalExpired(c.policy.AcceptanceWindow, now) {
		return false, ErrProposalNotExpired
	}
	return c.release(o, r, kernel.DispatcherActor(), "acceptance window expired", now)
}

// SelectCandidate picks the nearest rider that may be offered the order. Candidates
// come from the rider directory already ordered by distance.
func (c AssignmentCoordinator) SelectCandidate(o *order.Order, candidates []rider.Nearby) (*rider.Rider, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		r := candidate.Rider
		if r.Validate() != nil || o.HasDeclined(r.ID()) {
			continue
		}
		if r.Status() != rider.StatusAvailable || r.CanTakeOrder(c.policy.RiderCapacity) != nil {
			continue
		}
		return r, nil
	}
	return nil, ErrNoCandidate
}

func (c AssignmentCoordinator) assign(
	o *order.Order,
	r *rider.Rider,
	actor kernel.Actor,
	mode order.AssignmentMode,
	now time.Time,
) error {
	if err := errors.Join(o.Validate(), r.Validate()); err != nil {
		return err
	}
	if err := r.CanTakeOrder(c.policy.RiderCapacity); err != nil {
		return err
	}
	if err := o.AssignRider(actor, r.ID(), mode, now); err != nil {
		return err
	}
	return r.TakeOrder(o.ID(), c.policy.RiderCapacity)
}

func (c AssignmentCoordinator) release(
	o *order.Order,
	r *rider.Rider,
	actor kernel.Actor,
	reason string,
	now time.Time,
) (bool, error) {
	if err := errors.Join(o.Validate(), r.Validate()); err != nil {
		return false, err
	}
	if held := o.RiderID(); held == nil || !held.IsEqual(r.ID()) {
		return false, ErrRiderMismatch
	}

	released, err := o.ReleaseAssignment(actor, reason, now)
	if err != nil {
		return false, err
	}
	r.ReleaseOrder(released)

	return o.Escalate(c.policy.MaxProposals, now), nil
}

// ReleaseRider frees the rider from an order that was delivered or cancelled.
func (c AssignmentCoordinator) ReleaseRider(o *order.Order, r *rider.Rider) error {
	if err := errors.Join(o.Validate(), r.Validate()); err != nil {
		return err
	}
	if !o.Status().IsTerminal() {
		return fmt.Errorf("%w: %s order still holds its rider", order.ErrIllegalTransition, o.Status())
	}
	r.ReleaseOrder(o.ID())
	return nil
}
