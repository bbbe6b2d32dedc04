package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery reads one order with its items and status history.
//
// Customers see their own orders, restaurants the orders placed with them, riders the
// orders they hold. Admins see everything.
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.ID().Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Actor() kernel.Actor {
	return q.actor
}

type OrderItemResponse struct {
	Ref       string
	Quantity  int
	UnitPrice kernel.Money
}

type OrderHistoryResponse struct {
	From      order.Status
	To        order.Status
	ActorID   *kernel.UUID
	ActorRole kernel.Role
	Note      string
	At        time.Time
}

type GetOrderQueryResponse struct {
	ID             kernel.UUID
	CustomerID     kernel.UUID
	RestaurantID   kernel.UUID
	Status         order.Status
	PaymentMethod  payment.Method
	Total          kernel.Money
	Pickup         kernel.Location
	DeliveryStreet string
	Delivery       kernel.Location
	RiderID        *kernel.UUID
	ProposedAt     *time.Time
	AcceptedAt     *time.Time
	Escalated      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Items          []OrderItemResponse
	History        []OrderHistoryResponse
}
