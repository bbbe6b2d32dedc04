package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"
)

type NotificationRepository interface {
	Add(ctx context.Context, aggregate *notification.Notification) error
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// MarkRead flips the read status; it never touches publication state.
	MarkRead(ctx context.Context, id kernel.UUID) error

	// ListUnpublished returns notifications not yet handed to the sink, oldest first,
	// locking them so concurrent relays skip them.
	ListUnpublished(ctx context.Context, limit int) ([]*notification.Notification, error)

	MarkPublished(ctx context.Context, id kernel.UUID, at time.Time) error
}
