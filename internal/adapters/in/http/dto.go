package http

import (
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/model/rider"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

func (l Location) toDomain() (kernel.Location, error) {
	return kernel.NewLocation(l.Longitude, l.Latitude)
}

func locationFrom(l kernel.Location) Location {
	return Location{Longitude: l.Longitude(), Latitude: l.Latitude()}
}

type NewOrderItem struct {
	Ref       string `json:"ref"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type DeliveryAddress struct {
	Street    string  `json:"street"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// NewOrder is the body of POST /api/v1/orders. CustomerID is only read for admins
// placing an order on a customer's behalf.
type NewOrder struct {
	CustomerID    *string         `json:"customer_id,omitempty"`
	RestaurantID  string          `json:"restaurant_id"`
	Items         []NewOrderItem  `json:"items"`
	Pickup        Location        `json:"pickup"`
	Delivery      DeliveryAddress `json:"delivery"`
	PaymentMethod string          `json:"payment_method"`
}

type StatusChange struct {
	Status string `json:"status"`
}

type Cancellation struct {
	Reason string `json:"reason"`
}

type NewPayment struct {
	Method string `json:"method"`
	Amount string `json:"amount"`
}

// PaymentAssertion is what the checkout (or the gateway callback) reports after payment.
type PaymentAssertion struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

type Proposal struct {
	RiderID string `json:"rider_id"`
}

// NewRider is the body of POST /api/v1/riders. RiderID defaults to the acting rider's id.
type NewRider struct {
	RiderID  *string  `json:"rider_id,omitempty"`
	UserID   string   `json:"user_id"`
	Location Location `json:"location"`
}

type RiderStatusChange struct {
	Status string `json:"status"`
}

type OrderItem struct {
	Ref       string `json:"ref"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type HistoryEntry struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ActorID   *string   `json:"actor_id,omitempty"`
	ActorRole string    `json:"actor_role"`
	Note      string    `json:"note,omitempty"`
	At        time.Time `json:"at"`
}

type Order struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	RestaurantID    string          `json:"restaurant_id"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	Total           string          `json:"total"`
	Pickup          Location        `json:"pickup"`
	Delivery        DeliveryAddress `json:"delivery"`
	RiderID         *string         `json:"rider_id,omitempty"`
	ProposedAt      *time.Time      `json:"proposed_at,omitempty"`
	AcceptedAt      *time.Time      `json:"accepted_at,omitempty"`
	FailedProposals int             `json:"failed_proposals"`
	Escalated       bool            `json:"escalated"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `json:"items,omitempty"`
	History         []HistoryEntry  `json:"history,omitempty"`
}

type AssignableOrder struct {
	ID              string    `json:"id"`
	RestaurantID    string    `json:"restaurant_id"`
	Pickup          Location  `json:"pickup"`
	Total           string    `json:"total"`
	ReadyAt         time.Time `json:"ready_at"`
	FailedProposals int       `json:"failed_proposals"`
	Escalated       bool      `json:"escalated"`
}

type Payment struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"order_id"`
	Method         string     `json:"method"`
	Amount         string     `json:"amount"`
	Status         string     `json:"status"`
	GatewayOrderID string     `json:"gateway_order_id,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

type Rider struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Location       Location  `json:"location"`
	Status         string    `json:"status"`
	AssignedOrders []string  `json:"assigned_orders"`
	LastUpdated    time.Time `json:"last_updated"`
}

type AvailableRider struct {
	ID             string    `json:"id"`
	Location       Location  `json:"location"`
	LastUpdated    time.Time `json:"last_updated"`
	DistanceMeters float64   `json:"distance_meters"`
}

type Notification struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func orderFrom(o *order.Order) Order {
	items := make([]OrderItem, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, OrderItem{Ref: it.Ref(), Quantity: it.Quantity(), UnitPrice: it.UnitPrice().String()})
	}
	return Order{
		ID:            o.ID().String(),
		CustomerID:    o.CustomerID().String(),
		RestaurantID:  o.RestaurantID().String(),
		Status:        o.Status().String(),
		PaymentMethod: o.PaymentMethod().String(),
		Total:         o.Total().String(),
		Pickup:        locationFrom(o.Pickup()),
		Delivery: DeliveryAddress{
			Street:    o.Delivery().Street(),
			Longitude: o.Delivery().Location().Longitude(),
			Latitude:  o.Delivery().Location().Latitude(),
		},
		RiderID:         optionalID(o.RiderID()),
		ProposedAt:      o.ProposedAt(),
		AcceptedAt:      o.AcceptedAt(),
		FailedProposals: o.FailedProposals(),
		Escalated:       o.IsEscalated(),
		CreatedAt:       o.CreatedAt(),
		Items:           items,
	}
}

func orderDetailsFrom(r queries.GetOrderQueryResponse) Order {
	items := make([]OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, OrderItem{Ref: it.Ref, Quantity: it.Quantity, UnitPrice: it.UnitPrice.String()})
	}
	history := make([]HistoryEntry, 0, len(r.History))
	for _, h := range r.History {
		history = append(history, HistoryEntry{
			From:      h.From.String(),
			To:        h.To.String(),
			ActorID:   optionalID(h.ActorID),
			ActorRole: h.ActorRole.String(),
			Note:      h.Note,
			At:        h.At,
		})
	}
	return Order{
		ID:            r.ID.String(),
		CustomerID:    r.CustomerID.String(),
		RestaurantID:  r.RestaurantID.String(),
		Status:        r.Status.String(),
		PaymentMethod: r.PaymentMethod.String(),
		Total:         r.Total.String(),
		Pickup:        locationFrom(r.Pickup),
		Delivery: DeliveryAddress{
			Street:    r.DeliveryStreet,
			Longitude: r.Delivery.Longitude(),
			Latitude:  r.Delivery.Latitude(),
		},
		RiderID:    optionalID(r.RiderID),
		ProposedAt: r.ProposedAt,
		AcceptedAt: r.AcceptedAt,
		Escalated:  r.Escalated,
		CreatedAt:  r.CreatedAt,
		Items:      items,
		History:    history,
	}
}

func paymentFrom(p *payment.Payment) Payment {
	return Payment{
		ID:             p.ID().String(),
		OrderID:        p.OrderID().String(),
		Method:         p.Method().String(),
		Amount:         p.Amount().String(),
		Status:         p.Status().String(),
		GatewayOrderID: p.GatewayOrderID(),
		ResolvedAt:     p.ResolvedAt(),
	}
}

func riderFrom(r *rider.Rider) Rider {
	assigned := make([]string, 0, len(r.AssignedOrders()))
	for _, id := range r.AssignedOrders() {
		assigned = append(assigned, id.String())
	}
	return Rider{
		ID:             r.ID().String(),
		UserID:         r.UserID().String(),
		Location:       locationFrom(r.Location()),
		Status:         r.Status().String(),
		AssignedOrders: assigned,
		LastUpdated:    r.LastUpdated(),
	}
}

func notificationFrom(n queries.NotificationResponse) Notification {
	return Notification{
		ID:        n.ID.String(),
		OrderID:   n.OrderID.String(),
		Type:      string(n.Type),
		Status:    string(n.Status),
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
}
