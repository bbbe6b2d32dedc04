package commands

import (
	"errors"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrVerifyPaymentCommandIsNotConstructed = errors.New(
	"VerifyPaymentCommand must be created via NewVerifyPaymentCommand constructor",
)

// VerifyPaymentCommand carries a signed payment assertion from the checkout.
type VerifyPaymentCommand struct {
	paymentID        kernel.UUID
	gatewayOrderID   string
	gatewayPaymentID string
	signature        string

	guard guard.ConstructorGuard
}

func NewVerifyPaymentCommand(
	paymentID kernel.UUID,
	gatewayOrderID, gatewayPaymentID, signature string,
) (VerifyPaymentCommand, error) {
	if err := paymentID.Validate(); err != nil {
		return VerifyPaymentCommand{}, err
	}
	if strings.TrimSpace(signature) == "" {
		return VerifyPaymentCommand{}, errs.NewValueIsRequiredError("signature")
	}
	return VerifyPaymentCommand{
		paymentID:        paymentID,
		gatewayOrderID:   gatewayOrderID,
		gatewayPaymentID: gatewayPaymentID,
		signature:        strings.TrimSpace(signature),
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (c VerifyPaymentCommand) Validate() error {
	return c.guard.Validate(ErrVerifyPaymentCommandIsNotConstructed)
}
