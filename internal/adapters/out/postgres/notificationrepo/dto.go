package notificationrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// NotificationDTO is the notifications table. Rows with a NULL published_at form the outbox.
type NotificationDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_restaurant,priority:1"`
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type         string     `gorm:"type:varchar(32);not null"`
	Status       string     `gorm:"type:varchar(16);not null"`
	Message      string     `gorm:"type:text;not null"`
	CreatedAt    time.Time  `gorm:"autoCreateTime:false;index:idx_notifications_restaurant,priority:2"`
	PublishedAt  *time.Time `gorm:"index"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:           n.ID().Bytes(),
		RestaurantID: n.RestaurantID().Bytes(),
		OrderID:      n.OrderID().Bytes(),
		Type:         string(n.Type()),
		Status:       string(n.Status()),
		Message:      n.Message(),
		CreatedAt:    n.CreatedAt(),
		PublishedAt:  n.PublishedAt(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return notification.RestoreNotification(
		id, restaurantID, orderID,
		notification.Type(dto.Type),
		notification.Status(dto.Status),
		dto.Message,
		dto.CreatedAt,
		dto.PublishedAt,
	)
}
