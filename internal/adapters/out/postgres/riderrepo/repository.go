package riderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/rider"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// DefaultSearchTimeout bounds a proximity query.
const DefaultSearchTimeout = 3 * time.Second

// GormRiderRepository implements ports.RiderRepository using GORM.
type GormRiderRepository struct {
	db            *gorm.DB
	tracker       aggregateTracker
	searchTimeout time.Duration
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormRiderRepository(db *gorm.DB, tracker aggregateTracker) *GormRiderRepository {
	return &GormRiderRepository{
		db:            db,
		tracker:       tracker,
		searchTimeout: DefaultSearchTimeout,
	}
}

// WithSearchTimeout returns a copy of the repository whose proximity queries give up after timeout.
func (r *GormRiderRepository) WithSearchTimeout(timeout time.Duration) *GormRiderRepository {
	clone := *r
	clone.searchTimeout = timeout
	return &clone
}

// Add registers a rider. A second rider for the same user account is rejected.
func (r *GormRiderRepository) Add(ctx context.Context, aggregate *rider.Rider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewValueIsInvalidErrorWithCause("rider user", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes status and assigned orders if the stored version still matches.
// Position columns are left alone; they belong to UpdateLocation.
func (r *GormRiderRepository) Update(ctx context.Context, aggregate *rider.Rider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&RiderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Updates(map[string]any{
			"status":          dto.Status,
			"assigned_orders": dto.AssignedOrders,
			"version":         dto.Version,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return errs.NewVersionIsInvalidError("rider", fmt.Errorf("version %d is stale", aggregate.Version()))
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a rider by ID.
func (r *GormRiderRepository) Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RiderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("rider", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateLocation overwrites the position columns only.
func (r *GormRiderRepository) UpdateLocation(
	ctx context.Context,
	id kernel.UUID,
	location kernel.Location,
	at time.Time,
) error {
	if err := errors.Join(id.Validate(), location.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&RiderDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"longitude":    location.Longitude(),
			"latitude":     location.Latitude(),
			"last_updated": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("rider", id.String())
	}
	return nil
}

// FindAvailable answers "who is near" from the GiST index: earth_box narrows the
// candidates through the index, earth_distance trims the box corners and orders the hits.
func (r *GormRiderRepository) FindAvailable(
	ctx context.Context,
	origin kernel.Location,
	radiusMeters float64,
	limit int,
) ([]rider.Nearby, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 || limit <= 0 {
		return []rider.Nearby{}, nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, r.searchTimeout)
	defer cancel()

	lat, lon := origin.Latitude(), origin.Longitude()
	var hits []nearbyDTO
	err := r.db.WithContext(searchCtx).Raw(`
		SELECT
			riders.*,
			earth_distance(ll_to_earth(?, ?), ll_to_earth(latitude, longitude)) AS distance
		FROM riders
		WHERE status = ?
			AND earth_box(ll_to_earth(?, ?), ?) @> ll_to_earth(latitude, longitude)
			AND earth_distance(ll_to_earth(?, ?), ll_to_earth(latitude, longitude)) <= ?
		ORDER BY distance, id
		LIMIT ?
	`, lat, lon, int(rider.StatusAvailable), lat, lon, radiusMeters, lat, lon, radiusMeters, limit).
		Scan(&hits).Error
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(searchCtx.Err(), context.DeadlineExceeded) {
			return nil, errs.NewUpstreamUnavailableError("rider directory", err)
		}
		return nil, err
	}

	nearby := make([]rider.Nearby, 0, len(hits))
	for _, hit := range hits {
		rd, convErr := toDomain(hit.RiderDTO)
		if convErr != nil {
			return nil, convErr
		}
		nearby = append(nearby, rider.Nearby{Rider: rd, DistanceMeters: hit.Distance})
	}
	return nearby, nil
}
