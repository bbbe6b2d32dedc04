package notification_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromOrderEvent(t *testing.T) {
	now := time.Now()
	base := order.Event{
		Kind:         order.EventStatusChanged,
		OrderID:      kernel.NewUUID(),
		RestaurantID: kernel.NewUUID(),
		OccurredAt:   now,
	}

	tests := []struct {
		name string
		mut  func(e *order.Event)
		want notification.Type
	}{
		{"confirmed is a new order", func(e *order.Event) { e.From, e.To = order.PaymentPending, order.Confirmed }, notification.TypeNewOrder},
		{"kitchen progress is an update", func(e *order.Event) { e.From, e.To = order.Confirmed, order.Preparing }, notification.TypeOrderUpdate},
		{"acceptance is an update", func(e *order.Event) { e.Kind = order.EventAssignmentAccepted }, notification.TypeOrderUpdate},
		{"escalation is other", func(e *order.Event) { e.Kind, e.Note = order.EventEscalated, "3 proposals" }, notification.TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			tt.mut(&e)

			n, err := notification.FromOrderEvent(kernel.NewUUID(), e)

			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Type())
			assert.Equal(t, notification.StatusUnread, n.Status())
			assert.True(t, n.OrderID().IsEqual(e.OrderID))
			assert.True(t, n.RestaurantID().IsEqual(e.RestaurantID))
			assert.Equal(t, now, n.CreatedAt())
			assert.NotEmpty(t, n.Message())
		})
	}
}

func TestNotification_Lifecycle(t *testing.T) {
	n, err := notification.NewNotification(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		notification.TypeOther, "kitchen closing soon", time.Now())
	require.NoError(t, err)

	first := time.Now()
	n.MarkPublished(first)
	n.MarkPublished(first.Add(time.Hour))
	n.MarkRead()
	n.MarkRead()

	require.NotNil(t, n.PublishedAt())
	assert.Equal(t, first, *n.PublishedAt())
	assert.Equal(t, notification.StatusRead, n.Status())
}

func TestNewNotification_Validation(t *testing.T) {
	_, err := notification.NewNotification(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		notification.Type("promo"), "hi", time.Now())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = notification.NewNotification(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		notification.TypeOther, " ", time.Now())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
