package services_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/model/rider"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func actor(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return a
}

func newOrder(t *testing.T, customer kernel.Actor, restaurantID kernel.UUID, method payment.Method) *order.Order {
	t.Helper()

	price, _ := kernel.MoneyFromString("125")
	item, err := order.NewItem("biryani", 2, price)
	require.NoError(t, err)
	pickup, _ := kernel.NewLocation(77.5946, 12.9716)
	drop, _ := kernel.NewLocation(77.6101, 12.9352)
	addr, err := order.NewAddress("4th Cross", drop)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), customer.ID(), restaurantID, []order.Item{item}, pickup, addr, method, customer, now)
	require.NoError(t, err)
	return o
}

func readyOrder(t *testing.T) (*order.Order, kernel.Actor) {
	t.Helper()

	customer := actor(t, kernel.NewUUID(), kernel.RoleCustomer)
	restaurant := actor(t, kernel.NewUUID(), kernel.RoleRestaurant)
	o := newOrder(t, customer, restaurant.ID(), payment.MethodCOD)
	require.NoError(t, o.StartPreparing(restaurant, now))
	require.NoError(t, o.MarkReady(restaurant, now))
	o.PopEvents()
	return o, restaurant
}

func newRider(t *testing.T, lon, lat float64) *rider.Rider {
	t.Helper()
	loc, err := kernel.NewLocation(lon, lat)
	require.NoError(t, err)
	r, err := rider.NewRider(kernel.NewUUID(), kernel.NewUUID(), loc, now)
	require.NoError(t, err)
	return r
}
