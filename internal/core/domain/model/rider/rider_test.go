package rider_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/rider"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRider(t *testing.T) *rider.Rider {
	t.Helper()

	loc, err := kernel.NewLocation(77.59, 12.97)
	require.NoError(t, err)
	r, err := rider.NewRider(kernel.NewUUID(), kernel.NewUUID(), loc, time.Now())
	require.NoError(t, err)
	return r
}

func TestNewRider(t *testing.T) {
	r := newRider(t)

	assert.Equal(t, rider.StatusAvailable, r.Status())
	assert.Empty(t, r.AssignedOrders())

	_, err := rider.NewRider(kernel.NewUUID(), kernel.UUID{}, r.Location(), time.Now())
	require.Error(t, err)
}

func TestRider_UpdateLocationKeepsStatus(t *testing.T) {
	r := newRider(t)
	require.NoError(t, r.TakeOrder(kernel.NewUUID(), 1))
	loc, _ := kernel.NewLocation(77.61, 12.93)
	at := time.Now().Add(time.Minute)

	require.NoError(t, r.UpdateLocation(loc, at))

	assert.Equal(t, rider.StatusBusy, r.Status())
	assert.Equal(t, at, r.LastUpdated())
	eq, _ := r.Location().IsEqual(loc)
	assert.True(t, eq)

	require.Error(t, r.UpdateLocation(kernel.Location{}, at))
}

func TestRider_TakeAndReleaseOrders(t *testing.T) {
	t.Run("busy while holding, available after last release", func(t *testing.T) {
		r := newRider(t)
		first, second := kernel.NewUUID(), kernel.NewUUID()

		require.NoError(t, r.TakeOrder(first, 2))
		require.NoError(t, r.TakeOrder(second, 2))
		assert.Equal(t, rider.StatusBusy, r.Status())

		r.ReleaseOrder(first)
		assert.Equal(t, rider.StatusBusy, r.Status())
		assert.False(t, r.Holds(first))

		r.ReleaseOrder(second)
		assert.Equal(t, rider.StatusAvailable, r.Status())
		assert.Empty(t, r.AssignedOrders())
	})

	t.Run("capacity is enforced", func(t *testing.T) {
		r := newRider(t)
		require.NoError(t, r.TakeOrder(kernel.NewUUID(), 1))

		err := r.TakeOrder(kernel.NewUUID(), 1)

		require.ErrorIs(t, err, rider.ErrRiderAtCapacity)
		assert.True(t, errs.IsTransitionRejected(err))
		assert.Len(t, r.AssignedOrders(), 1)
	})

	t.Run("taking the same order twice is a no-op", func(t *testing.T) {
		r := newRider(t)
		id := kernel.NewUUID()

		require.NoError(t, r.TakeOrder(id, 1))
		require.NoError(t, r.TakeOrder(id, 1))
		assert.Len(t, r.AssignedOrders(), 1)
	})

	t.Run("offline riders take nothing", func(t *testing.T) {
		r := newRider(t)
		require.NoError(t, r.SetStatus(rider.StatusOffline))

		require.ErrorIs(t, r.TakeOrder(kernel.NewUUID(), 1), rider.ErrIllegalTransition)
	})
}

func TestRider_SetStatus(t *testing.T) {
	t.Run("shift changes when idle", func(t *testing.T) {
		r := newRider(t)

		require.NoError(t, r.SetStatus(rider.StatusOffline))
		assert.Equal(t, rider.StatusOffline, r.Status())
		require.NoError(t, r.SetStatus(rider.StatusAvailable))
		assert.Equal(t, rider.StatusAvailable, r.Status())
	})

	t.Run("cannot force available while holding orders", func(t *testing.T) {
		r := newRider(t)
		require.NoError(t, r.TakeOrder(kernel.NewUUID(), 1))

		require.ErrorIs(t, r.SetStatus(rider.StatusAvailable), rider.ErrIllegalTransition)
		require.ErrorIs(t, r.SetStatus(rider.StatusOffline), rider.ErrIllegalTransition)
		assert.Equal(t, rider.StatusBusy, r.Status())
	})

	t.Run("busy cannot be requested", func(t *testing.T) {
		r := newRider(t)

		require.ErrorIs(t, r.SetStatus(rider.StatusBusy), rider.ErrIllegalTransition)
	})
}

func TestRestoreRider(t *testing.T) {
	loc, _ := kernel.NewLocation(0, 0)

	_, err := rider.RestoreRider(kernel.NewUUID(), kernel.NewUUID(), loc, time.Now(),
		rider.StatusBusy, nil, 1)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	r, err := rider.RestoreRider(kernel.NewUUID(), kernel.NewUUID(), loc, time.Now(),
		rider.StatusBusy, []kernel.UUID{kernel.NewUUID()}, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Version())
}
