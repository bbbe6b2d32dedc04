package commands

import (
	"errors"
	"strings"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrGatewayCallbackCommandIsNotConstructed = errors.New(
	"GatewayCallbackCommand must be created via NewGatewayCallbackCommand constructor",
)

// GatewayCallbackCommand is the server-to-server notification the gateway sends after
// checkout. It identifies the payment by the gateway's order id only.
type GatewayCallbackCommand struct {
	gatewayOrderID   string
	gatewayPaymentID string
	signature        string

	guard guard.ConstructorGuard
}

func NewGatewayCallbackCommand(gatewayOrderID, gatewayPaymentID, signature string) (GatewayCallbackCommand, error) {
	if strings.TrimSpace(gatewayOrderID) == "" {
		return GatewayCallbackCommand{}, errs.NewValueIsRequiredError("gateway order id")
	}
	if strings.TrimSpace(signature) == "" {
		return GatewayCallbackCommand{}, errs.NewValueIsRequiredError("signature")
	}
	return GatewayCallbackCommand{
		gatewayOrderID:   strings.TrimSpace(gatewayOrderID),
		gatewayPaymentID: strings.TrimSpace(gatewayPaymentID),
		signature:        strings.TrimSpace(signature),
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (c GatewayCallbackCommand) Validate() error {
	return c.guard.Validate(ErrGatewayCallbackCommandIsNotConstructed)
}
