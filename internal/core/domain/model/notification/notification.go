package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

// Type classifies a notification for the restaurant dashboard.
type Type string

const (
	TypeNewOrder    Type = "new_order"
	TypeOrderUpdate Type = "order_update"
	TypeOther       Type = "other"
)

func (t Type) Validate() error {
	switch t {
	case TypeNewOrder, TypeOrderUpdate, TypeOther:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("notification type", fmt.Errorf("%q is not a valid type", string(t)))
	}
}

// Status tracks whether the restaurant has seen the notification.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

func (s Status) Validate() error {
	if s != StatusUnread && s != StatusRead {
		return errs.NewValueIsInvalidErrorWithCause("notification status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// ErrNotificationIsNotConstructed is returned when a Notification skipped its constructors.
var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

// Notification is a derived record of an order lifecycle event addressed to the order's
// restaurant. It never changes the order it describes. Once persisted it is relayed to
// the notification sink exactly once (PublishedAt) and read by the restaurant (Status).
type Notification struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	orderID      kernel.UUID
	message      string
	kind         Type
	status       Status
	createdAt    time.Time
	publishedAt  *time.Time

	isConstructed bool
}

func NewNotification(id, restaurantID, orderID kernel.UUID, kind Type, message string, now time.Time) (*Notification, error) {
	if err := errors.Join(id.Validate(), restaurantID.Validate(), orderID.Validate(), kind.Validate()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(message) == "" {
		return nil, errs.NewValueIsRequiredError("message")
	}

	return &Notification{
		id:            id,
		restaurantID:  restaurantID,
		orderID:       orderID,
		message:       message,
		kind:          kind,
		status:        StatusUnread,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// FromOrderEvent maps an order event to its notification: a paid (confirmed) order is
// new for the kitchen, escalations need attention, everything else is an update.
func FromOrderEvent(id kernel.UUID, e order.Event) (*Notification, error) {
	kind := TypeOrderUpdate
	switch {
	case e.Kind == order.EventEscalated:
		kind = TypeOther
	case e.Kind == order.EventStatusChanged && e.To == order.Confirmed:
		kind = TypeNewOrder
	}

	return NewNotification(id, e.RestaurantID, e.OrderID, kind, e.Message(), e.OccurredAt)
}

func RestoreNotification(
	id, restaurantID, orderID kernel.UUID,
	kind Type,
	status Status,
	message string,
	createdAt time.Time,
	publishedAt *time.Time,
) (*Notification, error) {
	if err := errors.Join(id.Validate(), restaurantID.Validate(), orderID.Validate(), kind.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Notification{
		id:            id,
		restaurantID:  restaurantID,
		orderID:       orderID,
		message:       message,
		kind:          kind,
		status:        status,
		createdAt:     createdAt,
		publishedAt:   publishedAt,
		isConstructed: true,
	}, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID {
	return n.id
}

func (n *Notification) RestaurantID() kernel.UUID {
	return n.restaurantID
}

func (n *Notification) OrderID() kernel.UUID {
	return n.orderID
}

func (n *Notification) Message() string {
	return n.message
}

func (n *Notification) Type() Type {
	return n.kind
}

func (n *Notification) Status() Status {
	return n.status
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) PublishedAt() *time.Time {
	return n.publishedAt
}

// MarkRead is idempotent.
func (n *Notification) MarkRead() {
	n.status = StatusRead
}

// MarkPublished records the hand-off to the sink. Only the first call counts.
func (n *Notification) MarkPublished(at time.Time) {
	if n.publishedAt == nil {
		n.publishedAt = &at
	}
}
