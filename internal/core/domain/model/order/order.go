package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"
)

// AssignmentMode tells AssignRider whether the rider asked for the order or was offered it.
type AssignmentMode int

const (
	// ModeProposal offers the order to a rider, who must accept within the acceptance window.
	ModeProposal AssignmentMode = iota + 1
	// ModeClaim is a rider taking the order from the assignable pool; it is accepted at once.
	ModeClaim
)

// Order is the aggregate root of the coordination core. It owns the canonical status,
// the line items and total, and the rider assignment (a weak reference by rider id).
//
// Order follows these invariants:
//   - Status only moves along the edges of the transition table
//   - At most one rider holds the order, and only in Assigned or PickedUp
//   - The total is computed once from the items and never changes
//   - Every accepted transition appends one history entry and raises one event
//   - A rejected operation leaves the order untouched
//
// Storage uses Version for optimistic concurrency; the claim itself is a conditional
// update on status and rider, see ports.OrderRepository.
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID

	items    []Item
	total    kernel.Money
	pickup   kernel.Location
	delivery Address
	method   payment.Method

	status Status

	// riderID is set while a rider holds the order and kept after delivery or cancellation.
	riderID    *kernel.UUID
	proposedAt *time.Time
	// acceptedAt is nil while a proposal waits for the rider's answer.
	acceptedAt      *time.Time
	failedProposals int
	declinedBy      []kernel.UUID
	escalated       bool

	createdAt time.Time
	readyAt   *time.Time
	updatedAt time.Time
	version   int

	history []HistoryEntry
	events  []Event

	isConstructed bool
}

// NewOrder places an order. The order is created and immediately moved on by placedBy:
// to PaymentPending, or straight to Confirmed for cash on delivery.
//
// Example:
//
//	price, _ := kernel.MoneyFromString("125")
//	item, _ := order.NewItem("paneer-tikka", 2, price)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, restaurantID,
//	    []order.Item{item}, restaurantLoc, address, payment.MethodUPI, customer, time.Now())
//	// o.Status() == order.PaymentPending, o.Total() == 250.00
func NewOrder(
	id, customerID, restaurantID kernel.UUID,
	items []Item,
	pickup kernel.Location,
	delivery Address,
	method payment.Method,
	placedBy kernel.Actor,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		restaurantID.Validate(),
		pickup.Validate(),
		delivery.location.Validate(),
		method.Validate(),
	); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrItemsAreRequired
	}

	o := &Order{
		id:            id,
		customerID:    customerID,
		restaurantID:  restaurantID,
		items:         slices.Clone(items),
		total:         totalOf(items),
		pickup:        pickup,
		delivery:      delivery,
		method:        method,
		status:        Created,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	next := PaymentPending
	if method.IsCashOnDelivery() {
		next = Confirmed
	}
	if err := o.Transition(placedBy, next, now); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot carries the persisted state of an order for RestoreOrder.
type Snapshot struct {
	ID              kernel.UUID
	CustomerID      kernel.UUID
	RestaurantID    kernel.UUID
	Items           []Item
	Total           kernel.Money
	Pickup          kernel.Location
	Delivery        Address
	PaymentMethod   payment.Method
	Status          Status
	RiderID         *kernel.UUID
	ProposedAt      *time.Time
	AcceptedAt      *time.Time
	FailedProposals int
	DeclinedBy      []kernel.UUID
	Escalated       bool
	CreatedAt       time.Time
	ReadyAt         *time.Time
	UpdatedAt       time.Time
	Version         int
	History         []HistoryEntry
}

// RestoreOrder rebuilds an order from storage and re-checks the invariants that
// do not depend on history.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.CustomerID.Validate(),
		s.RestaurantID.Validate(),
		s.Pickup.Validate(),
		s.Delivery.location.Validate(),
		s.PaymentMethod.Validate(),
		s.Status.Validate(),
		s.Total.Validate(),
	); err != nil {
		return nil, err
	}
	if len(s.Items) == 0 {
		return nil, ErrItemsAreRequired
	}
	if err := s.Status.validateCanHaveRider(s.RiderID != nil); err != nil {
		return nil, err
	}
	if !s.Total.Equal(totalOf(s.Items)) {
		return nil, errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("%s does not match items sum %s", s.Total, totalOf(s.Items)))
	}

	return &Order{
		id:              s.ID,
		customerID:      s.CustomerID,
		restaurantID:    s.RestaurantID,
		items:           slices.Clone(s.Items),
		total:           s.Total,
		pickup:          s.Pickup,
		delivery:        s.Delivery,
		method:          s.PaymentMethod,
		status:          s.Status,
		riderID:         s.RiderID,
		proposedAt:      s.ProposedAt,
		acceptedAt:      s.AcceptedAt,
		failedProposals: s.FailedProposals,
		declinedBy:      slices.Clone(s.DeclinedBy),
		escalated:       s.Escalated,
		createdAt:       s.CreatedAt,
		readyAt:         s.ReadyAt,
		updatedAt:       s.UpdatedAt,
		version:         s.Version,
		history:         slices.Clone(s.History),
		isConstructed:   true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

// Total is the immutable sum of the line items.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Pickup is the restaurant location; dispatch searches for riders around it.
func (o *Order) Pickup() kernel.Location {
	return o.pickup
}

func (o *Order) Delivery() Address {
	return o.delivery
}

func (o *Order) PaymentMethod() payment.Method {
	return o.method
}

func (o *Order) Status() Status {
	return o.status
}

// RiderID returns the rider holding (or last holding) the order, nil if none.
func (o *Order) RiderID() *kernel.UUID {
	return o.riderID
}

func (o *Order) ProposedAt() *time.Time {
	return o.proposedAt
}

func (o *Order) AcceptedAt() *time.Time {
	return o.acceptedAt
}

// IsAwaitingAcceptance reports whether a proposal is outstanding.
func (o *Order) IsAwaitingAcceptance() bool {
	return o.status == Assigned && o.acceptedAt == nil
}

func (o *Order) FailedProposals() int {
	return o.failedProposals
}

func (o *Order) DeclinedBy() []kernel.UUID {
	return slices.Clone(o.declinedBy)
}

// HasDeclined reports whether the rider already declined or let a proposal for this order expire.
func (o *Order) HasDeclined(riderID kernel.UUID) bool {
	return slices.ContainsFunc(o.declinedBy, riderID.IsEqual)
}

func (o *Order) IsEscalated() bool {
	return o.escalated
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// ReadyAt is when the order first became ready for pickup. Releases keep it, so
// a bounced order stays at the head of the assignable pool.
func (o *Order) ReadyAt() *time.Time {
	return o.readyAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version is the value loaded from storage; repositories use it as the update precondition.
func (o *Order) Version() int {
	return o.version
}

func (o *Order) History() []HistoryEntry {
	return slices.Clone(o.history)
}

// PopEvents returns the events raised since the last call and clears them.
func (o *Order) PopEvents() []Event {
	events := o.events
	o.events = nil
	return events
}

// Transition fires an actor-driven edge of the state machine. Coordinated edges
// (assignment and its release) are rejected with ErrUnauthorizedTransition; use
// AssignRider and ReleaseAssignment instead.
//
// Checks, in order: the edge exists (ErrIllegalTransition), the actor's role may fire it
// (ErrUnauthorizedTransition), the actor owns the order (ErrUnauthorizedTransition, or
// ErrNotAssignedRider for riders), edge-specific rules (ErrIllegalTransition).
func (o *Order) Transition(actor kernel.Actor, to Status, now time.Time) error {
	t, err := o.checkTransition(actor, to)
	if err != nil {
		return err
	}
	if t.Coordinated {
		return fmt.Errorf("%w: %s -> %s is fired by the assignment coordinator", ErrUnauthorizedTransition, o.status, to)
	}

	switch {
	case o.status == Created && to == Confirmed && !o.method.IsCashOnDelivery():
		return fmt.Errorf("%w: only cash on delivery skips payment", ErrIllegalTransition)
	case o.status == Assigned && to == PickedUp && o.acceptedAt == nil:
		return fmt.Errorf("%w: assignment is not accepted yet", ErrIllegalTransition)
	}

	o.apply(actor, to, "", now)
	if to == ReadyForPickup && o.readyAt == nil {
		o.readyAt = &now
	}
	return nil
}

// ConfirmPayment is fired by the payment verification gate on settlement.
func (o *Order) ConfirmPayment(now time.Time) error {
	return o.Transition(kernel.PaymentGateActor(), Confirmed, now)
}

// StartPreparing is fired by the restaurant when cooking starts.
func (o *Order) StartPreparing(actor kernel.Actor, now time.Time) error {
	return o.Transition(actor, Preparing, now)
}

// MarkReady puts the order into the assignable pool.
func (o *Order) MarkReady(actor kernel.Actor, now time.Time) error {
	return o.Transition(actor, ReadyForPickup, now)
}

// PickUp is fired by the assigned rider after accepting the assignment.
func (o *Order) PickUp(actor kernel.Actor, now time.Time) error {
	return o.Transition(actor, PickedUp, now)
}

// Deliver is fired by the assigned rider and ends the order.
func (o *Order) Deliver(actor kernel.Actor, now time.Time) error {
	return o.Transition(actor, Delivered, now)
}

// Cancel ends the order. When a rider was holding it, the rider id is returned so
// the caller can release the rider's claim in the same transaction.
func (o *Order) Cancel(actor kernel.Actor, reason string, now time.Time) (*kernel.UUID, error) {
	if _, err := o.checkTransition(actor, Cancelled); err != nil {
		return nil, err
	}

	var released *kernel.UUID
	if o.status.HoldsRider() {
		released = o.riderID
	}

	o.apply(actor, Cancelled, reason, now)
	o.proposedAt = nil
	return released, nil
}

// AssignRider moves a ready order to Assigned for riderID. It is the domain half of the
// claim; storage must apply it with a conditional update so only one caller wins.
//
// ModeClaim requires the actor to be that rider. ModeProposal requires the owning
// restaurant, an admin or the dispatcher, and leaves the assignment awaiting acceptance.
// Orders already held by a rider return ErrAlreadyAssigned.
func (o *Order) AssignRider(actor kernel.Actor, riderID kernel.UUID, mode AssignmentMode, now time.Time) error {
	if err := riderID.Validate(); err != nil {
		return err
	}
	if o.status.HoldsRider() {
		return fmt.Errorf("%w: order %s", ErrAlreadyAssigned, o.id)
	}
	if _, err := o.checkTransition(actor, Assigned); err != nil {
		return err
	}

	switch mode {
	case ModeClaim:
		if !actor.Is(kernel.RoleRider) || !actor.ID().IsEqual(riderID) {
			return fmt.Errorf("%w: only the rider can claim for itself", ErrUnauthorizedTransition)
		}
	case ModeProposal:
		if actor.Is(kernel.RoleRider) {
			return fmt.Errorf("%w: riders claim, they do not propose", ErrUnauthorizedTransition)
		}
	default:
		return errs.NewValueIsInvalidErrorWithCause("assignment mode", fmt.Errorf("%d is not a valid mode", mode))
	}

	o.riderID = &riderID
	o.proposedAt = &now
	o.acceptedAt = nil
	if mode == ModeClaim {
		o.acceptedAt = &now
	}
	o.apply(actor, Assigned, modeNote(mode), now)
	return nil
}

// AcceptAssignment records the proposed rider's acceptance. A zero window disables expiry.
func (o *Order) AcceptAssignment(actor kernel.Actor, window time.Duration, now time.Time) error {
	if o.status != Assigned {
		return fmt.Errorf("%w: %s order has no assignment to accept", ErrIllegalTransition, o.status)
	}
	if !actor.Is(kernel.RoleRider) || !o.isHeldBy(actor.ID()) {
		return ErrNotAssignedRider
	}
	if o.acceptedAt != nil {
		return fmt.Errorf("%w: assignment already accepted", ErrIllegalTransition)
	}
	if o.IsProposalExpired(window, now) {
		return ErrProposalExpired
	}

	o.acceptedAt = &now
	o.updatedAt = now
	o.events = append(o.events, Event{
		Kind:         EventAssignmentAccepted,
		OrderID:      o.id,
		RestaurantID: o.restaurantID,
		From:         Assigned,
		To:           Assigned,
		Actor:        actor,
		RiderID:      o.riderID,
		OccurredAt:   now,
	})
	return nil
}

// IsProposalExpired reports whether an outstanding proposal is older than window.
func (o *Order) IsProposalExpired(window time.Duration, now time.Time) bool {
	if !o.IsAwaitingAcceptance() || o.proposedAt == nil || window <= 0 {
		return false
	}
	return now.Sub(*o.proposedAt) > window
}

// ReleaseAssignment returns an unaccepted proposal to the assignable pool, because the
// rider declined it or the dispatcher expired it. The release counts as a failed proposal
// and the rider is remembered so dispatch does not offer the order to it again.
// The released rider id is returned.
func (o *Order) ReleaseAssignment(actor kernel.Actor, reason string, now time.Time) (kernel.UUID, error) {
	if !o.IsAwaitingAcceptance() {
		return kernel.UUID{}, fmt.Errorf("%w: no outstanding proposal on %s order", ErrIllegalTransition, o.status)
	}
	if _, err := o.checkTransition(actor, ReadyForPickup); err != nil {
		return kernel.UUID{}, err
	}

	released := *o.riderID
	o.apply(actor, ReadyForPickup, reason, now)
	o.riderID = nil
	o.proposedAt = nil
	o.failedProposals++
	if !o.HasDeclined(released) {
		o.declinedBy = append(o.declinedBy, released)
	}
	return released, nil
}

// Escalate flags the order for manual assignment once failedProposals reaches maxProposals.
// It reports whether the flag was raised by this call. Escalated orders are skipped by
// automatic dispatch; restaurants, admins and riders may still assign them.
func (o *Order) Escalate(maxProposals int, now time.Time) bool {
	if o.escalated || maxProposals <= 0 || o.failedProposals < maxProposals {
		return false
	}

	o.escalated = true
	o.updatedAt = now
	o.events = append(o.events, Event{
		Kind:         EventEscalated,
		OrderID:      o.id,
		RestaurantID: o.restaurantID,
		From:         o.status,
		To:           o.status,
		Actor:        kernel.DispatcherActor(),
		Note:         fmt.Sprintf("%d proposals declined or expired", o.failedProposals),
		OccurredAt:   now,
	})
	return true
}

// checkTransition validates edge, role and ownership without mutating the order.
func (o *Order) checkTransition(actor kernel.Actor, to Status) (Transition, error) {
	if err := o.Validate(); err != nil {
		return Transition{}, err
	}
	if err := to.Validate(); err != nil {
		return Transition{}, err
	}

	t, ok := findTransition(o.status, to)
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.status, to)
	}
	if !t.allows(actor.Role()) {
		return Transition{}, fmt.Errorf("%w: %s may not move %s order to %s",
			ErrUnauthorizedTransition, actor.Role(), o.status, to)
	}
	if err := o.checkOwnership(actor); err != nil {
		return Transition{}, err
	}
	return t, nil
}

func (o *Order) checkOwnership(actor kernel.Actor) error {
	switch actor.Role() {
	case kernel.RoleCustomer:
		if !actor.ID().IsEqual(o.customerID) {
			return fmt.Errorf("%w: order belongs to another customer", ErrUnauthorizedTransition)
		}
	case kernel.RoleRestaurant:
		if !actor.ID().IsEqual(o.restaurantID) {
			return fmt.Errorf("%w: order belongs to another restaurant", ErrUnauthorizedTransition)
		}
	case kernel.RoleRider:
		// Riders claiming a pooled order are checked by AssignRider.
		if o.status.HoldsRider() && !o.isHeldBy(actor.ID()) {
			return ErrNotAssignedRider
		}
	}
	return nil
}

func (o *Order) isHeldBy(riderID kernel.UUID) bool {
	return o.riderID != nil && o.riderID.IsEqual(riderID)
}

func (o *Order) apply(actor kernel.Actor, to Status, note string, now time.Time) {
	from := o.status
	o.status = to
	o.updatedAt = now
	o.history = append(o.history, HistoryEntry{
		Seq:       len(o.history) + 1,
		From:      from,
		To:        to,
		ActorID:   actor.ID(),
		ActorRole: actor.Role(),
		Note:      note,
		At:        now,
	})
	o.events = append(o.events, Event{
		Kind:         EventStatusChanged,
		OrderID:      o.id,
		RestaurantID: o.restaurantID,
		From:         from,
		To:           to,
		Actor:        actor,
		RiderID:      o.riderID,
		Note:         note,
		OccurredAt:   now,
	})
}

func modeNote(mode AssignmentMode) string {
	if mode == ModeClaim {
		return "claimed"
	}
	return "proposed"
}
