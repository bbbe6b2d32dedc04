package queries

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListAssignableOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListAssignableOrdersQueryHandler(db *gorm.DB) ListAssignableOrdersQueryHandler {
	return ListAssignableOrdersQueryHandler{db: db}
}

// Handle returns the pool oldest ready first, the order auto-dispatch works through it.
func (h ListAssignableOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListAssignableOrdersQuery,
) ([]AssignableOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]AssignableOrderResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			restaurant_id,
			pickup_longitude,
			pickup_latitude,
			total,
			ready_at,
			failed_proposals,
			escalated
		FROM orders
		WHERE status = ? AND rider_id IS NULL
		ORDER BY ready_at, created_at
		LIMIT ?
	`, int(order.ReadyForPickup), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp AssignableOrderResponse
		var id, restaurantID uuid.UUID
		var lon, lat float64
		var total decimal.Decimal
		var readyAt *time.Time

		err = rows.Scan(&id, &restaurantID, &lon, &lat, &total, &readyAt, &resp.FailedProposals, &resp.Escalated)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.RestaurantID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
			return nil, err
		}
		if resp.Pickup, err = kernel.NewLocation(lon, lat); err != nil {
			return nil, err
		}
		if resp.Total, err = kernel.NewMoney(total); err != nil {
			return nil, err
		}
		if readyAt != nil {
			resp.ReadyAt = *readyAt
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
