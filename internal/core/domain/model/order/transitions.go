package order

import (
	"slices"

	"fooddelivery/internal/core/domain/model/kernel"
)

// Transition is one edge of the order state machine together with the roles allowed to fire it.
// Coordinated edges are only fired by the assignment coordinator, never through Order.Transition.
type Transition struct {
	From        Status
	To          Status
	Roles       []kernel.Role
	Coordinated bool
}

var (
	buyers  = []kernel.Role{kernel.RoleCustomer, kernel.RoleAdmin}
	kitchen = []kernel.Role{kernel.RoleRestaurant, kernel.RoleAdmin}
	anyone  = []kernel.Role{kernel.RoleCustomer, kernel.RoleRestaurant, kernel.RoleAdmin}
)

var transitionTable = []Transition{
	{From: Created, To: PaymentPending, Roles: buyers},
	{From: Created, To: Confirmed, Roles: buyers},
	{From: PaymentPending, To: Confirmed, Roles: []kernel.Role{kernel.RolePaymentGate}},
	{From: Confirmed, To: Preparing, Roles: kitchen},
	{From: Preparing, To: ReadyForPickup, Roles: kitchen},
	{
		From:        ReadyForPickup,
		To:          Assigned,
		Roles:       []kernel.Role{kernel.RoleDispatcher, kernel.RoleRider, kernel.RoleRestaurant, kernel.RoleAdmin},
		Coordinated: true,
	},
	{
		From:        Assigned,
		To:          ReadyForPickup,
		Roles:       []kernel.Role{kernel.RoleDispatcher, kernel.RoleRider},
		Coordinated: true,
	},
	{From: Assigned, To: PickedUp, Roles: []kernel.Role{kernel.RoleRider}},
	{From: PickedUp, To: Delivered, Roles: []kernel.Role{kernel.RoleRider}},

	// Customers may only cancel before a rider is involved.
	{From: Created, To: Cancelled, Roles: anyone},
	{From: PaymentPending, To: Cancelled, Roles: anyone},
	{From: Confirmed, To: Cancelled, Roles: anyone},
	{From: Preparing, To: Cancelled, Roles: anyone},
	{From: ReadyForPickup, To: Cancelled, Roles: anyone},
	{From: Assigned, To: Cancelled, Roles: kitchen},
	{From: PickedUp, To: Cancelled, Roles: kitchen},
}

// Transitions returns a copy of the state machine's edges.
func Transitions() []Transition {
	return slices.Clone(transitionTable)
}

// NextStatuses lists the statuses reachable from s by any role.
func NextStatuses(s Status) []Status {
	var next []Status
	for _, t := range transitionTable {
		if t.From == s {
			next = append(next, t.To)
		}
	}
	return next
}

func findTransition(from, to Status) (Transition, bool) {
	for _, t := range transitionTable {
		if t.From == from && t.To == to {
			return t, true
		}
	}
	return Transition{}, false
}

func (t Transition) allows(role kernel.Role) bool {
	return slices.Contains(t.Roles, role)
}
