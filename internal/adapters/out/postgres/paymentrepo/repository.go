package paymentrepo

import (
	"context"
	"errors"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPaymentRepository implements ports.PaymentRepository using GORM.
type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormPaymentRepository) Add(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewValueIsInvalidErrorWithCause("gateway order id", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Resolve writes the terminal outcome only while the stored row is still pending,
// so two verifications racing on one payment resolve it once.
func (r *GormPaymentRepository) Resolve(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.Status().IsTerminal() {
		return errs.NewValueIsInvalidError("payment status")
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&PaymentDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(payment.StatusPending)).
		Updates(map[string]any{
			"status":             dto.Status,
			"gateway_payment_id": dto.GatewayPaymentID,
			"resolved_at":        dto.ResolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return payment.ErrAlreadyResolved
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PaymentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormPaymentRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*payment.Payment, error) {
	if strings.TrimSpace(gatewayOrderID) == "" {
		return nil, errs.NewValueIsRequiredError("gatewayOrderID")
	}

	var dto PaymentDTO
	if err := r.db.WithContext(ctx).First(&dto, "gateway_order_id = ?", gatewayOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment", gatewayOrderID)
		}
		return nil, err
	}

	return toDomain(dto)
}
