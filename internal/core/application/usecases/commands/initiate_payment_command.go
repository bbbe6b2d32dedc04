package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/guard"
)

var ErrInitiatePaymentCommandIsNotConstructed = errors.New(
	"InitiatePaymentCommand must be created via NewInitiatePaymentCommand constructor",
)

type InitiatePaymentCommand struct {
	paymentID kernel.UUID
	orderID   kernel.UUID
	payer     kernel.Actor
	method    payment.Method
	amount    kernel.Money

	guard guard.ConstructorGuard
}

func NewInitiatePaymentCommand(
	paymentID, orderID kernel.UUID,
	payer kernel.Actor,
	method payment.Method,
	amount kernel.Money,
) (InitiatePaymentCommand, error) {
	if err := errors.Join(
		paymentID.Validate(),
		orderID.Validate(),
		method.Validate(),
		amount.Validate(),
	); err != nil {
		return InitiatePaymentCommand{}, err
	}
	return InitiatePaymentCommand{
		paymentID: paymentID,
		orderID:   orderID,
		payer:     payer,
		method:    method,
		amount:    amount,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c InitiatePaymentCommand) Validate() error {
	return c.guard.Validate(ErrInitiatePaymentCommandIsNotConstructed)
}

func (c InitiatePaymentCommand) PaymentID() kernel.UUID {
	return c.paymentID
}
