package commands_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/model/rider"
	"fooddelivery/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

const gatewaySecret = "test-secret"

func actor(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return a
}

func coordinator() services.AssignmentCoordinator {
	return services.NewAssignmentCoordinator(services.AssignmentPolicy{
		AcceptanceWindow: time.Minute,
		MaxProposals:     3,
		RiderCapacity:    1,
	})
}

func gate(t *testing.T) services.PaymentGate {
	t.Helper()
	g, err := services.NewPaymentGate(gatewaySecret)
	require.NoError(t, err)
	return g
}

func items(t *testing.T) []order.Item {
	t.Helper()
	price, err := kernel.MoneyFromString("125.50")
	require.NoError(t, err)
	item, err := order.NewItem("masala-dosa", 2, price)
	require.NoError(t, err)
	return []order.Item{item}
}

func location(t *testing.T, lon, lat float64) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(lon, lat)
	require.NoError(t, err)
	return loc
}

func address(t *testing.T) order.Address {
	t.Helper()
	addr, err := order.NewAddress("12 MG Road", location(t, 77.6101, 12.9352))
	require.NoError(t, err)
	return addr
}

// placedOrder returns an order placed by its customer, plus the customer and restaurant actors.
func placedOrder(t *testing.T, method payment.Method) (*order.Order, kernel.Actor, kernel.Actor) {
	t.Helper()

	customer := actor(t, kernel.NewUUID(), kernel.RoleCustomer)
	restaurant := actor(t, kernel.NewUUID(), kernel.RoleRestaurant)
	o, err := order.NewOrder(
		kernel.NewUUID(), customer.ID(), restaurant.ID(), items(t),
		location(t, 77.5946, 12.9716), address(t), method, customer, time.Now().UTC(),
	)
	require.NoError(t, err)
	o.PopEvents()
	return o, customer, restaurant
}

// readyOrder returns an order waiting in the assignable pool and the restaurant that owns it.
func readyOrder(t *testing.T) (*order.Order, kernel.Actor) {
	t.Helper()

	o, _, restaurant := placedOrder(t, payment.MethodCOD)
	now := time.Now().UTC()
	require.NoError(t, o.StartPreparing(restaurant, now))
	require.NoError(t, o.MarkReady(restaurant, now))
	o.PopEvents()
	return o, restaurant
}

// proposedOrder returns an order proposed to r at proposedAt and still awaiting acceptance.
func proposedOrder(t *testing.T, r *rider.Rider, proposedAt time.Time) *order.Order {
	t.Helper()

	o, restaurant := readyOrder(t)
	require.NoError(t, coordinator().Propose(o, r, restaurant, proposedAt))
	o.PopEvents()
	return o
}

func newRider(t *testing.T) *rider.Rider {
	t.Helper()
	r, err := rider.NewRider(kernel.NewUUID(), kernel.NewUUID(), location(t, 77.5950, 12.9720), time.Now().UTC())
	require.NoError(t, err)
	return r
}
