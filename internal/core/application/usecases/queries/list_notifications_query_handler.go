package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListNotificationsQueryHandler struct {
	db *gorm.DB
}

func NewListNotificationsQueryHandler(db *gorm.DB) ListNotificationsQueryHandler {
	return ListNotificationsQueryHandler{db: db}
}

func (h ListNotificationsQueryHandler) Handle(
	ctx context.Context,
	query ListNotificationsQuery,
) ([]NotificationResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	notifications := make([]NotificationResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, order_id, type, status, message, created_at
		FROM notifications
		WHERE restaurant_id = ? AND (NOT ? OR status = ?)
		ORDER BY created_at DESC, id
		LIMIT ?
	`, query.restaurantID.Bytes(), query.unreadOnly, string(notification.StatusUnread), query.limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp NotificationResponse
		var id, orderID uuid.UUID
		var kind, status string

		if err = rows.Scan(&id, &orderID, &kind, &status, &resp.Message, &resp.CreatedAt); err != nil {
			return nil, err
		}
		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		resp.Type = notification.Type(kind)
		resp.Status = notification.Status(status)

		notifications = append(notifications, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}
