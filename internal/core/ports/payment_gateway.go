package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
)

// PaymentGateway is the external payment provider.
type PaymentGateway interface {
	// CreateOrder registers an amount with the gateway and returns the gateway order id
	// the checkout will be signed against. Transport failures and timeouts are reported
	// as errs.ErrUpstreamUnavailable.
	CreateOrder(ctx context.Context, receipt string, amount kernel.Money) (string, error)
}
