package kernel_test

import (
	"math"
	"testing"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name      string
		longitude float64
		latitude  float64
		wantErr   bool
	}{
		{name: "city center", longitude: 77.5946, latitude: 12.9716},
		{name: "lower bounds", longitude: -180, latitude: -90},
		{name: "upper bounds", longitude: 180, latitude: 90},
		{name: "longitude too small", longitude: -180.0001, latitude: 0, wantErr: true},
		{name: "longitude too large", longitude: 181, latitude: 0, wantErr: true},
		{name: "latitude too small", longitude: 0, latitude: -91, wantErr: true},
		{name: "latitude too large", longitude: 0, latitude: 90.5, wantErr: true},
		{name: "swapped pair", longitude: 12.9, latitude: 177.5, wantErr: true},
		{name: "not a number", longitude: math.NaN(), latitude: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := kernel.NewLocation(tt.longitude, tt.latitude)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, kernel.ErrInvalidCoordinates)
				assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}

			require.NoError(t, err)
			require.NoError(t, loc.Validate())
			assert.InDelta(t, tt.longitude, loc.Longitude(), 1e-9)
			assert.InDelta(t, tt.latitude, loc.Latitude(), 1e-9)
		})
	}
}

func TestLocation_ZeroValueIsInvalid(t *testing.T) {
	var loc kernel.Location
	valid, _ := kernel.NewLocation(1, 1)

	require.ErrorIs(t, loc.Validate(), kernel.ErrLocationIsNotConstructed)

	_, err := loc.DistanceTo(valid)
	require.Error(t, err)

	_, err = valid.IsEqual(loc)
	require.Error(t, err)
}

func TestLocation_IsEqual(t *testing.T) {
	a, _ := kernel.NewLocation(77.59, 12.97)
	b, _ := kernel.NewLocation(77.59, 12.97)
	c, _ := kernel.NewLocation(12.97, 77.59)

	eq, err := a.IsEqual(b)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = a.IsEqual(c)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestLocation_DistanceTo(t *testing.T) {
	t.Run("same point", func(t *testing.T) {
		a, _ := kernel.NewLocation(77.5946, 12.9716)

		d, err := a.DistanceTo(a)

		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-6)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		a, _ := kernel.NewLocation(0, 0)
		b, _ := kernel.NewLocation(0, 1)

		d, err := a.DistanceTo(b)

		require.NoError(t, err)
		assert.InDelta(t, 111195, d, 10)
	})

	t.Run("symmetric", func(t *testing.T) {
		a, _ := kernel.NewLocation(-0.1278, 51.5074)
		b, _ := kernel.NewLocation(2.3522, 48.8566)

		ab, _ := a.DistanceTo(b)
		ba, _ := b.DistanceTo(a)

		assert.InDelta(t, ab, ba, 1e-6)
		assert.InDelta(t, 343500, ab, 1500)
	})
}
