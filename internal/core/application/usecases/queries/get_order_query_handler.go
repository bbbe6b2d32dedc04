package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	resp, err := h.readOrder(db, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if !canSee(query.Actor(), resp) {
		return GetOrderQueryResponse{}, ErrNotVisible
	}

	if resp.Items, err = h.readItems(db, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.History, err = h.readHistory(db, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func canSee(actor kernel.Actor, o GetOrderQueryResponse) bool {
	switch actor.Role() {
	case kernel.RoleAdmin:
		return true
	case kernel.RoleCustomer:
		return actor.ID().IsEqual(o.CustomerID)
	case kernel.RoleRestaurant:
		return actor.ID().IsEqual(o.RestaurantID)
	case kernel.RoleRider:
		return o.RiderID != nil && actor.ID().IsEqual(*o.RiderID)
	default:
		return false
	}
}

func (h GetOrderQueryHandler) readOrder(db *gorm.DB, orderID kernel.UUID) (GetOrderQueryResponse, error) {
	var resp GetOrderQueryResponse
	var id, customerID, restaurantID uuid.UUID
	var riderID *uuid.UUID
	var status, method int
	var total decimal.Decimal
	var pickupLon, pickupLat, deliveryLon, deliveryLat float64

	row := db.Raw(`
		SELECT
			id, customer_id, restaurant_id,
			status, payment_method, total,
			pickup_longitude, pickup_latitude,
			delivery_street, delivery_longitude, delivery_latitude,
			rider_id, proposed_at, accepted_at, escalated,
			created_at, updated_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	err := row.Scan(
		&id, &customerID, &restaurantID,
		&status, &method, &total,
		&pickupLon, &pickupLat,
		&resp.DeliveryStreet, &deliveryLon, &deliveryLat,
		&riderID, &resp.ProposedAt, &resp.AcceptedAt, &resp.Escalated,
		&resp.CreatedAt, &resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.RestaurantID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if riderID != nil {
		rID, riderErr := kernel.UUIDFromBytes(riderID[:])
		if riderErr != nil {
			return GetOrderQueryResponse{}, riderErr
		}
		resp.RiderID = &rID
	}
	if resp.Total, err = kernel.NewMoney(total); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.Pickup, err = kernel.NewLocation(pickupLon, pickupLat); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.Delivery, err = kernel.NewLocation(deliveryLon, deliveryLat); err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Status = order.Status(status)
	resp.PaymentMethod = payment.Method(method)

	return resp, nil
}

func (h GetOrderQueryHandler) readItems(db *gorm.DB, orderID kernel.UUID) ([]OrderItemResponse, error) {
	items := make([]OrderItemResponse, 0)

	rows, err := db.Raw(`
		SELECT ref, quantity, unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItemResponse
		var price decimal.Decimal
		if err = rows.Scan(&item.Ref, &item.Quantity, &price); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = kernel.NewMoney(price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (h GetOrderQueryHandler) readHistory(db *gorm.DB, orderID kernel.UUID) ([]OrderHistoryResponse, error) {
	history := make([]OrderHistoryResponse, 0)

	rows, err := db.Raw(`
		SELECT from_status, to_status, actor_id, actor_role, note, "at"
		FROM order_history
		WHERE order_id = ?
		ORDER BY seq
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry OrderHistoryResponse
		var from, to int
		var actorID uuid.UUID
		var role string
		var at time.Time

		if err = rows.Scan(&from, &to, &actorID, &role, &entry.Note, &at); err != nil {
			return nil, err
		}

		entry.From = order.Status(from)
		entry.To = order.Status(to)
		entry.ActorRole = kernel.Role(role)
		entry.At = at
		if actorID != uuid.Nil {
			id, idErr := kernel.UUIDFromBytes(actorID[:])
			if idErr != nil {
				return nil, idErr
			}
			entry.ActorID = &id
		}
		history = append(history, entry)
	}

	return history, rows.Err()
}
