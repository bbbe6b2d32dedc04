package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// All writes also persist the history entries the aggregate appended.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists an ordinary transition. It applies only if the stored version still equals
	// aggregate.Version(); otherwise it returns errs.ErrVersionIsInvalid and writes nothing.
	Update(ctx context.Context, aggregate *order.Order) error

	// Claim persists a ready_for_pickup -> assigned transition as a single conditional update:
	// it succeeds only if the stored order is still ready_for_pickup with no rider. The loser
	// of a race gets order.ErrAlreadyAssigned, or order.ErrIllegalTransition if the order left
	// the pool some other way (e.g. it was cancelled).
	Claim(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its history. Returns errs.ErrObjectNotFound when missing.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListForDispatch returns up to limit assignable orders that are not escalated,
	// oldest ready first. An empty pool is not an error.
	ListForDispatch(ctx context.Context, limit int) ([]*order.Order, error)

	// ListProposalsBefore returns orders whose outstanding proposal was made before cutoff.
	ListProposalsBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error)
}
