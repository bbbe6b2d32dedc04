package rider

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

var (
	// ErrRiderIsNotConstructed is returned when a Rider skipped NewRider or RestoreRider.
	ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider constructor")

	// ErrIllegalTransition is returned when a status change would break the busy invariant.
	ErrIllegalTransition = fmt.Errorf("%w: illegal rider transition", errs.ErrIllegalTransition)

	// ErrRiderAtCapacity is returned when the rider already holds the maximum number of orders.
	ErrRiderAtCapacity = fmt.Errorf("%w: rider is at capacity", errs.ErrIllegalTransition)
)

// Rider is the aggregate for a courier: its live position, availability, and the ids of the
// orders it currently holds. It references orders by id only; the order owns the assignment.
//
// Invariants:
//   - status is Busy if and only if assignedOrders is not empty
//   - an Offline rider holds no orders
//   - location changes only through UpdateLocation, on the rider's own report
type Rider struct {
	id             kernel.UUID
	userID         kernel.UUID
	location       kernel.Location
	lastUpdated    time.Time
	status         Status
	assignedOrders []kernel.UUID
	version        int

	isConstructed bool
}

// NewRider registers a rider for a user account. New riders start Available at the
// reported location.
func NewRider(id, userID kernel.UUID, location kernel.Location, now time.Time) (*Rider, error) {
	if err := errors.Join(id.Validate(), userID.Validate(), location.Validate()); err != nil {
		return nil, err
	}

	return &Rider{
		id:            id,
		userID:        userID,
		location:      location,
		lastUpdated:   now,
		status:        StatusAvailable,
		isConstructed: true,
	}, nil
}

// RestoreRider rebuilds a rider from storage and re-checks the busy invariant.
func RestoreRider(
	id, userID kernel.UUID,
	location kernel.Location,
	lastUpdated time.Time,
	status Status,
	assignedOrders []kernel.UUID,
	version int,
) (*Rider, error) {
	if err := errors.Join(id.Validate(), userID.Validate(), location.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	r := &Rider{
		id:             id,
		userID:         userID,
		location:       location,
		lastUpdated:    lastUpdated,
		status:         status,
		assignedOrders: slices.Clone(assignedOrders),
		version:        version,
		isConstructed:  true,
	}
	if (status == StatusBusy) != (len(assignedOrders) > 0) {
		return nil, errs.NewValueIsInvalidErrorWithCause("rider status",
			fmt.Errorf("%s rider holds %d orders", status, len(assignedOrders)))
	}
	return r, nil
}

func (r *Rider) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRiderIsNotConstructed
	}
	return nil
}

func (r *Rider) ID() kernel.UUID {
	return r.id
}

func (r *Rider) UserID() kernel.UUID {
	return r.userID
}

func (r *Rider) Location() kernel.Location {
	return r.location
}

func (r *Rider) LastUpdated() time.Time {
	return r.lastUpdated
}

func (r *Rider) Status() Status {
	return r.status
}

func (r *Rider) AssignedOrders() []kernel.UUID {
	return slices.Clone(r.assignedOrders)
}

func (r *Rider) Version() int {
	return r.version
}

// Holds reports whether orderID is among the rider's active orders.
func (r *Rider) Holds(orderID kernel.UUID) bool {
	return slices.ContainsFunc(r.assignedOrders, orderID.IsEqual)
}

// UpdateLocation overwrites the position. Status is left alone.
func (r *Rider) UpdateLocation(location kernel.Location, at time.Time) error {
	if err := location.Validate(); err != nil {
		return err
	}
	r.location = location
	r.lastUpdated = at
	return nil
}

// SetStatus lets the rider go on or off shift. Busy cannot be requested, and a rider
// holding orders can be neither Available nor Offline until they are released.
func (r *Rider) SetStatus(to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if to == StatusBusy {
		return fmt.Errorf("%w: busy follows from assigned orders", ErrIllegalTransition)
	}
	if len(r.assignedOrders) > 0 {
		return fmt.Errorf("%w: rider holds %d undelivered orders", ErrIllegalTransition, len(r.assignedOrders))
	}
	r.status = to
	return nil
}

// CanTakeOrder reports whether the rider is on shift and below capacity.
func (r *Rider) CanTakeOrder(capacity int) error {
	if r.status == StatusOffline {
		return fmt.Errorf("%w: rider is offline", ErrIllegalTransition)
	}
	if capacity > 0 && len(r.assignedOrders) >= capacity {
		return fmt.Errorf("%w: holds %d of %d", ErrRiderAtCapacity, len(r.assignedOrders), capacity)
	}
	return nil
}

// TakeOrder adds orderID to the rider's active orders and makes it busy.
// Taking an order already held is a no-op.
func (r *Rider) TakeOrder(orderID kernel.UUID, capacity int) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if r.Holds(orderID) {
		return nil
	}
	if err := r.CanTakeOrder(capacity); err != nil {
		return err
	}

	r.assignedOrders = append(r.assignedOrders, orderID)
	r.status = StatusBusy
	return nil
}

// ReleaseOrder removes orderID after delivery, cancellation or a released proposal.
// The rider becomes Available again when it holds nothing else. Releasing an order the
// rider does not hold is a no-op.
func (r *Rider) ReleaseOrder(orderID kernel.UUID) {
	r.assignedOrders = slices.DeleteFunc(r.assignedOrders, orderID.IsEqual)
	if len(r.assignedOrders) == 0 && r.status == StatusBusy {
		r.status = StatusAvailable
	}
}

// Nearby is a directory search hit: an available rider and its distance from the search origin.
type Nearby struct {
	Rider          *Rider
	DistanceMeters float64
}
