package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/payment"
)

// GatewayCallbackCommandHandler resolves the payment a callback refers to and verifies it
// exactly like a client-side assertion, so both paths settle a payment at most once.
type GatewayCallbackCommandHandler struct {
	uowFactory PaymentUoWFactory
	verify     VerifyPaymentCommandHandler
}

func NewGatewayCallbackCommandHandler(
	uowFactory PaymentUoWFactory,
	verify VerifyPaymentCommandHandler,
) GatewayCallbackCommandHandler {
	return GatewayCallbackCommandHandler{uowFactory: uowFactory, verify: verify}
}

func (h GatewayCallbackCommandHandler) Handle(
	ctx context.Context,
	command GatewayCallbackCommand,
) (*payment.Payment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	p, err := h.uowFactory.Create().PaymentRepository().GetByGatewayOrderID(ctx, command.gatewayOrderID)
	if err != nil {
		return nil, err
	}

	verifyCommand, err := NewVerifyPaymentCommand(p.ID(), command.gatewayOrderID, command.gatewayPaymentID, command.signature)
	if err != nil {
		return nil, err
	}
	return h.verify.Handle(ctx, verifyCommand)
}
