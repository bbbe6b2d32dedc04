package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrListNotificationsQueryIsNotConstructed = errors.New(
	"ListNotificationsQuery must be created via NewListNotificationsQuery constructor",
)

// ListNotificationsQuery reads a restaurant's notifications, newest first.
// A restaurant may only read its own; admins may read any restaurant's.
type ListNotificationsQuery struct {
	restaurantID kernel.UUID
	unreadOnly   bool
	limit        int
	guard        guard.ConstructorGuard
}

func NewListNotificationsQuery(
	restaurantID kernel.UUID,
	actor kernel.Actor,
	unreadOnly bool,
	limit int,
) (ListNotificationsQuery, error) {
	if err := restaurantID.Validate(); err != nil {
		return ListNotificationsQuery{}, err
	}
	if limit <= 0 || limit > 500 {
		return ListNotificationsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, 500)
	}
	switch {
	case actor.Is(kernel.RoleAdmin):
	case actor.Is(kernel.RoleRestaurant) && actor.ID().IsEqual(restaurantID):
	default:
		return ListNotificationsQuery{}, ErrNotVisible
	}

	return ListNotificationsQuery{
		restaurantID: restaurantID,
		unreadOnly:   unreadOnly,
		limit:        limit,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q ListNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListNotificationsQueryIsNotConstructed)
}

type NotificationResponse struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	Type      notification.Type
	Status    notification.Status
	Message   string
	CreatedAt time.Time
}
