// Package orderrepo persists order aggregates: the order row, its line items, and the
// append-only status history.
package orderrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders table. Timestamps are owned by the aggregate, so GORM's
// automatic time tracking is switched off.
type OrderDTO struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	RestaurantID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Total           decimal.Decimal   `gorm:"type:numeric(12,2);not null"`
	Pickup          LocationDTO       `gorm:"embedded;embeddedPrefix:pickup_"`
	DeliveryStreet  string            `gorm:"type:varchar(255);not null"`
	Delivery        LocationDTO       `gorm:"embedded;embeddedPrefix:delivery_"`
	PaymentMethod   int               `gorm:"not null"`
	Status          int               `gorm:"not null;index:idx_orders_pool,priority:1"`
	RiderID         *uuid.UUID        `gorm:"type:uuid;index"`
	ProposedAt      *time.Time        `gorm:"index"`
	AcceptedAt      *time.Time        `gorm:"column:accepted_at"`
	FailedProposals int               `gorm:"not null;default:0"`
	DeclinedBy      pq.StringArray    `gorm:"type:text[]"`
	Escalated       bool              `gorm:"not null;default:false"`
	CreatedAt       time.Time         `gorm:"autoCreateTime:false;not null"`
	ReadyAt         *time.Time        `gorm:"index:idx_orders_pool,priority:2"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime:false;not null"`
	Version         int               `gorm:"not null;default:0"`
	Items           []OrderItemDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History         []OrderHistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type LocationDTO struct {
	Longitude float64 `gorm:"type:double precision;not null"`
	Latitude  float64 `gorm:"type:double precision;not null"`
}

// OrderItemDTO is one line of an order. Items never change after the order is placed.
type OrderItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"primaryKey"`
	Ref       string          `gorm:"type:varchar(255);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// OrderHistoryDTO is one accepted transition. (order_id, seq) is unique, so replaying
// an entry that is already stored is a no-op.
type OrderHistoryDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey"`
	FromStatus int       `gorm:"not null"`
	ToStatus   int       `gorm:"not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole  string    `gorm:"type:varchar(32);not null"`
	Note       string    `gorm:"type:text"`
	At         time.Time `gorm:"not null"`
}

func (OrderHistoryDTO) TableName() string {
	return "order_history"
}

// fromDomain maps the aggregate to its row. The stored version is the one the next
// write will carry; the caller compares against aggregate.Version().
func fromDomain(o *order.Order) OrderDTO {
	var riderID *uuid.UUID
	if id := o.RiderID(); id != nil {
		raw := id.Bytes()
		riderID = &raw
	}

	declined := make(pq.StringArray, 0, len(o.DeclinedBy()))
	for _, id := range o.DeclinedBy() {
		declined = append(declined, id.String())
	}

	orderID := o.ID().Bytes()
	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   orderID,
			Position:  i,
			Ref:       item.Ref(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
		})
	}

	return OrderDTO{
		ID:              orderID,
		CustomerID:      o.CustomerID().Bytes(),
		RestaurantID:    o.RestaurantID().Bytes(),
		Total:           o.Total().Decimal(),
		Pickup:          locationDTO(o.Pickup()),
		DeliveryStreet:  o.Delivery().Street(),
		Delivery:        locationDTO(o.Delivery().Location()),
		PaymentMethod:   int(o.PaymentMethod()),
		Status:          int(o.Status()),
		RiderID:         riderID,
		ProposedAt:      o.ProposedAt(),
		AcceptedAt:      o.AcceptedAt(),
		FailedProposals: o.FailedProposals(),
		DeclinedBy:      declined,
		Escalated:       o.IsEscalated(),
		CreatedAt:       o.CreatedAt(),
		ReadyAt:         o.ReadyAt(),
		UpdatedAt:       o.UpdatedAt(),
		Version:         o.Version() + 1,
		Items:           items,
		History:         historyDTOs(o),
	}
}

func historyDTOs(o *order.Order) []OrderHistoryDTO {
	orderID := o.ID().Bytes()
	history := make([]OrderHistoryDTO, 0, len(o.History()))
	for _, h := range o.History() {
		history = append(history, OrderHistoryDTO{
			OrderID:    orderID,
			Seq:        h.Seq,
			FromStatus: int(h.From),
			ToStatus:   int(h.To),
			ActorID:    h.ActorID.Bytes(),
			ActorRole:  string(h.ActorRole),
			Note:       h.Note,
			At:         h.At,
		})
	}
	return history
}

func locationDTO(l kernel.Location) LocationDTO {
	return LocationDTO{Longitude: l.Longitude(), Latitude: l.Latitude()}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var riderID *kernel.UUID
	if dto.RiderID != nil {
		rID, riderErr := kernel.UUIDFromBytes((*dto.RiderID)[:])
		if riderErr != nil {
			return nil, riderErr
		}
		riderID = &rID
	}

	declined := make([]kernel.UUID, 0, len(dto.DeclinedBy))
	for _, raw := range dto.DeclinedBy {
		rID, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return nil, parseErr
		}
		declined = append(declined, rID)
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		price, moneyErr := kernel.NewMoney(itemDTO.UnitPrice)
		if moneyErr != nil {
			return nil, moneyErr
		}
		item, itemErr := order.NewItem(itemDTO.Ref, itemDTO.Quantity, price)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, h := range dto.History {
		// system actors (payment gate, dispatcher) are recorded with the nil UUID
		var actorID kernel.UUID
		if h.ActorID != uuid.Nil {
			parsed, actorErr := kernel.UUIDFromBytes(h.ActorID[:])
			if actorErr != nil {
				return nil, actorErr
			}
			actorID = parsed
		}
		history = append(history, order.HistoryEntry{
			Seq:       h.Seq,
			From:      order.Status(h.FromStatus),
			To:        order.Status(h.ToStatus),
			ActorID:   actorID,
			ActorRole: kernel.Role(h.ActorRole),
			Note:      h.Note,
			At:        h.At,
		})
	}

	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}
	pickup, err := kernel.NewLocation(dto.Pickup.Longitude, dto.Pickup.Latitude)
	if err != nil {
		return nil, err
	}
	deliveryLoc, err := kernel.NewLocation(dto.Delivery.Longitude, dto.Delivery.Latitude)
	if err != nil {
		return nil, err
	}
	delivery, err := order.NewAddress(dto.DeliveryStreet, deliveryLoc)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:              id,
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		Items:           items,
		Total:           total,
		Pickup:          pickup,
		Delivery:        delivery,
		PaymentMethod:   payment.Method(dto.PaymentMethod),
		Status:          order.Status(dto.Status),
		RiderID:         riderID,
		ProposedAt:      dto.ProposedAt,
		AcceptedAt:      dto.AcceptedAt,
		FailedProposals: dto.FailedProposals,
		DeclinedBy:      declined,
		Escalated:       dto.Escalated,
		CreatedAt:       dto.CreatedAt,
		ReadyAt:         dto.ReadyAt,
		UpdatedAt:       dto.UpdatedAt,
		Version:         dto.Version,
		History:         history,
	})
}
