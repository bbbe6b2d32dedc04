package kernel

import (
	"fmt"
	"strings"

	"fooddelivery/internal/pkg/errs"
)

// Role is the capacity in which an actor performs an action.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleRider      Role = "rider"
	RoleAdmin      Role = "admin"

	// Internal roles. ParseRole never yields them, so inbound adapters cannot impersonate the
	// payment gate or the dispatcher.
	RolePaymentGate Role = "payment_gate"
	RoleDispatcher  Role = "dispatcher"
)

func (r Role) String() string {
	return string(r)
}

// IsInternal reports whether the role belongs to a component of this service rather than a person.
func (r Role) IsInternal() bool {
	return r == RolePaymentGate || r == RoleDispatcher
}

// ParseRole accepts only the externally assignable roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleCustomer, RoleRestaurant, RoleRider, RoleAdmin:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not an actor role", s))
	}
}

// Actor is an authenticated identity acting on the core. For riders the id is the rider id,
// for restaurants the restaurant id, for customers the customer id.
type Actor struct {
	id   UUID
	role Role
}

func NewActor(id UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

// PaymentGateActor identifies settlements performed by the payment verification gate.
func PaymentGateActor() Actor {
	return Actor{role: RolePaymentGate}
}

// DispatcherActor identifies transitions performed by the assignment coordinator.
func DispatcherActor() Actor {
	return Actor{role: RoleDispatcher}
}

func (a Actor) ID() UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) Is(role Role) bool {
	return a.role == role
}

func (a Actor) String() string {
	if a.id.IsZero() {
		return a.role.String()
	}
	return fmt.Sprintf("%s:%s", a.role, a.id)
}
