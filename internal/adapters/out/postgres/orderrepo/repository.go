package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker lets the unit of work collect the events of every order written through it.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items and history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes an ordinary transition if the stored version still matches the aggregate's.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.writeOrder(ctx, &dto).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.current(ctx, aggregate.ID()); err != nil {
			return err
		}
		return errs.NewVersionIsInvalidError("order", fmt.Errorf("version %d is stale", aggregate.Version()))
	}

	if err := r.appendHistory(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Claim writes ready_for_pickup -> assigned as one conditional update. Postgres re-checks
// the predicate against the latest committed row, so among concurrent claims exactly one
// matches; the rest update nothing and are told why.
func (r *GormOrderRepository) Claim(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.Status() != order.Assigned || aggregate.RiderID() == nil {
		return fmt.Errorf("%w: claim must persist an assigned order", order.ErrIllegalTransition)
	}

	dto := fromDomain(aggregate)
	result := r.writeOrder(ctx, &dto).
		Where("id = ? AND status = ? AND rider_id IS NULL AND version = ?",
			dto.ID, int(order.ReadyForPickup), aggregate.Version()).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		stored, err := r.current(ctx, aggregate.ID())
		if err != nil {
			return err
		}
		if stored.RiderID != nil {
			return fmt.Errorf("%w: order %s", order.ErrAlreadyAssigned, aggregate.ID())
		}
		return fmt.Errorf("%w: order %s left the assignable pool", order.ErrIllegalTransition, aggregate.ID())
	}

	if err := r.appendHistory(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order with its items and history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withChildren(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListForDispatch returns pooled orders that are not escalated, oldest ready first.
func (r *GormOrderRepository) ListForDispatch(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withChildren(ctx).
		Where("status = ? AND rider_id IS NULL AND NOT escalated", int(order.ReadyForPickup)).
		Order("ready_at, created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// ListProposalsBefore returns unaccepted proposals made before cutoff, oldest first.
func (r *GormOrderRepository) ListProposalsBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withChildren(ctx).
		Where("status = ? AND accepted_at IS NULL AND proposed_at < ?", int(order.Assigned), cutoff).
		Order("proposed_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// writeOrder targets the orders row only. Select("*") makes GORM write zero values too,
// which is how a released rider_id goes back to NULL.
func (r *GormOrderRepository) writeOrder(ctx context.Context, dto *OrderDTO) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(dto).
		Select("*").
		Omit("id", "customer_id", "restaurant_id", "created_at", clause.Associations)
}

func (r *GormOrderRepository) appendHistory(ctx context.Context, aggregate *order.Order) error {
	history := historyDTOs(aggregate)
	if len(history) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&history).Error
}

// current reads the bare row to explain why a conditional write matched nothing.
func (r *GormOrderRepository) current(ctx context.Context, id kernel.UUID) (OrderDTO, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, errs.NewObjectNotFoundError("order", id.String())
		}
		return OrderDTO{}, err
	}
	return dto, nil
}

func (r *GormOrderRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
