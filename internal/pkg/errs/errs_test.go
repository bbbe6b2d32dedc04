package errs_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderID = "0b8e5c3a-6f1d-4a57-9a0e-2f4c1d7e9b10"

func TestVersionIsInvalidError_StaleAggregate(t *testing.T) {
	// What orderrepo.Update returns when no row matched the expected version.
	err := errs.NewVersionIsInvalidError("order", fmt.Errorf("version %d is stale", 3))

	assert.Equal(t, "order", err.ParamName)
	require.EqualError(t, err.Cause, "version 3 is stale")
	assert.Equal(t, "version is invalid: order (cause: version 3 is stale)", err.Error())
	assert.ErrorIs(t, err, errs.ErrVersionIsInvalid)

	t.Run("survives wrapping by the unit of work", func(t *testing.T) {
		wrapped := fmt.Errorf("commit claim: %w", err)

		var versionErr *errs.VersionIsInvalidError
		require.ErrorAs(t, wrapped, &versionErr)
		assert.Equal(t, "order", versionErr.ParamName)
		assert.ErrorIs(t, wrapped, errs.ErrVersionIsInvalid)
		assert.False(t, errs.IsTransitionRejected(wrapped))
	})

	t.Run("without a reason", func(t *testing.T) {
		err := errs.NewVersionIsInvalidErrorWithCause("rider")

		assert.NoError(t, err.Cause)
		assert.Equal(t, "version is invalid: rider", err.Error())
		assert.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})
}

func TestObjectNotFoundError_UnknownAggregate(t *testing.T) {
	t.Run("order id only", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", orderID)

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, orderID, err.ID)
		assert.NoError(t, err.Cause)
		assert.Equal(t, "object not found: "+orderID, err.Error())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("notification lookup with the driver error", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("notification", orderID, cause)

		assert.Equal(t,
			"object not found: param is: notification, ID is: "+orderID+" (cause: record not found)",
			err.Error())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Same(t, cause, err.Cause)
	})

	t.Run("non string id is formatted verbatim", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("rider", 42)
		assert.Equal(t, "object not found: %!s(int=42)", err.Error())
	})
}

func TestValueIsInvalidError_Amount(t *testing.T) {
	err := errs.NewValueIsInvalidError("payment method")
	assert.Equal(t, "value is invalid: payment method", err.Error())
	assert.NoError(t, err.Cause)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	cause := errors.New("12.345 has more than 2 decimal places")
	err = errs.NewValueIsInvalidErrorWithCause("amount", cause)
	assert.Equal(t, "amount", err.ParamName)
	assert.Equal(t, "value is invalid: amount (cause: 12.345 has more than 2 decimal places)", err.Error())
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Same(t, cause, err.Cause)
}

func TestValueIsOutOfRangeError_SearchParameters(t *testing.T) {
	tests := []struct {
		name    string
		err     *errs.ValueIsOutOfRangeError
		message string
	}{
		{
			name:    "limit above the directory cap",
			err:     errs.NewValueIsOutOfRangeError("limit", 501, 1, 500),
			message: "value is invalid: 501 is limit, min value is 1, max value is 500",
		},
		{
			name:    "latitude past the pole",
			err:     errs.NewValueIsOutOfRangeError("latitude", 95.5, -90.0, 90.0),
			message: "value is invalid: 95.5 is latitude, min value is -90, max value is 90",
		},
		{
			name: "radius with the parse failure",
			err: errs.NewValueIsOutOfRangeErrorWithCause("radius", -1, 0, 50000,
				errors.New("radius must be positive")),
			message: "value is invalid: -1 is radius, min value is 0, max value is 50000 " +
				"(cause: radius must be positive)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.ErrorIs(t, tt.err, errs.ErrValueIsOutOfRange)
			assert.NotErrorIs(t, tt.err, errs.ErrValueIsInvalid)
		})
	}

	t.Run("multi line values stay on one line", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("street", "12 MG Road\nFlat 4", 1, 200)
		assert.Contains(t, err.Error(), "12 MG Road Flat 4")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError_CallbackFields(t *testing.T) {
	err := errs.NewValueIsRequiredError("gateway payment id")
	assert.Equal(t, "value is required: gateway payment id", err.Error())
	assert.NoError(t, err.Cause)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	err = errs.NewValueIsRequiredErrorWithCause("signature", errors.New("header X-Signature is empty"))
	assert.Equal(t, "value is required: signature (cause: header X-Signature is empty)", err.Error())
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestUpstreamUnavailableError_RiderDirectory(t *testing.T) {
	err := errs.NewUpstreamUnavailableError("rider directory", context.DeadlineExceeded)

	assert.Equal(t, "rider directory", err.Service)
	assert.Equal(t, "upstream unavailable: rider directory (cause: context deadline exceeded)", err.Error())
	assert.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
	assert.Equal(t, context.DeadlineExceeded, err.Cause)
	assert.NotErrorIs(t, err, context.DeadlineExceeded, "only the family sentinel is unwrapped")

	bare := errs.NewUpstreamUnavailableError("payment gateway", nil)
	assert.Equal(t, "upstream unavailable: payment gateway", bare.Error())
	assert.ErrorIs(t, bare, errs.ErrUpstreamUnavailable)
}

func TestFamiliesDoNotOverlap(t *testing.T) {
	sentinels := []error{
		errs.ErrObjectNotFound,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsOutOfRange,
		errs.ErrValueIsRequired,
		errs.ErrVersionIsInvalid,
		errs.ErrIllegalTransition,
		errs.ErrUpstreamUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b, "%q must not match %q", a, b)
			}
		}
	}
}

func TestIsTransitionRejected(t *testing.T) {
	illegal := fmt.Errorf("%w: preparing -> delivered", errs.ErrIllegalTransition)

	assert.True(t, errs.IsTransitionRejected(illegal))
	assert.True(t, errs.IsTransitionRejected(fmt.Errorf("advance order %s: %w", orderID, illegal)))
	assert.False(t, errs.IsTransitionRejected(errs.NewVersionIsInvalidError("order", errors.New("version 2 is stale"))))
	assert.False(t, errs.IsTransitionRejected(errs.NewValueIsInvalidError("amount")))
	assert.False(t, errs.IsTransitionRejected(nil))
}
