package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/notification"
)

// NotificationPublisher hands notifications to the downstream sink.
type NotificationPublisher interface {
	Publish(ctx context.Context, n *notification.Notification) error
}
