package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
)

// InitiatePaymentCommandHandler opens a payment for an order awaiting payment.
//
// The gateway is called before the transaction starts so no row lock is held across
// the network round trip. A gateway that does not answer leaves nothing behind.
type InitiatePaymentCommandHandler struct {
	uowFactory PaymentUoWFactory
	gate       services.PaymentGate
	gateway    ports.PaymentGateway
}

func NewInitiatePaymentCommandHandler(
	uowFactory PaymentUoWFactory,
	gate services.PaymentGate,
	gateway ports.PaymentGateway,
) InitiatePaymentCommandHandler {
	return InitiatePaymentCommandHandler{uowFactory: uowFactory, gate: gate, gateway: gateway}
}

func (h InitiatePaymentCommandHandler) Handle(
	ctx context.Context,
	command InitiatePaymentCommand,
) (*payment.Payment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()

	o, err := uow.OrderRepository().Get(ctx, command.orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p, err := h.gate.Initiate(o, command.payer, command.paymentID, command.method, command.amount, now)
	if err != nil {
		return nil, err
	}

	if p.NeedsGatewayOrder() {
		gatewayOrderID, gwErr := h.gateway.CreateOrder(ctx, p.ID().String(), p.Amount())
		if gwErr != nil {
			return nil, gwErr
		}
		if err = p.AttachGatewayOrder(gatewayOrderID); err != nil {
			return nil, err
		}
	}

	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PaymentRepository().Add(ctx, p); err != nil {
		return nil, err
	}
	if p.Method().IsCashOnDelivery() {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return nil, orderConflict(err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}
