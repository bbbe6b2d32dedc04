package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
)

type PaymentRepository interface {
	Add(ctx context.Context, aggregate *payment.Payment) error

	// Resolve persists the payment's terminal status with a single conditional update that
	// applies only while the stored payment is still pending. Otherwise it returns
	// payment.ErrAlreadyResolved and writes nothing.
	Resolve(ctx context.Context, aggregate *payment.Payment) error

	Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error)

	// GetByGatewayOrderID resolves gateway callbacks to the payment they refer to.
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*payment.Payment, error)
}
