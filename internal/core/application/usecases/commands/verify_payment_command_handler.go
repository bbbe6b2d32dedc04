package commands

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/services"
)

// VerifyPaymentCommandHandler resolves a pending payment from a signed assertion.
//
// A valid signature settles the payment and confirms the order in one transaction.
// An invalid one fails the payment, commits that, and returns payment.ErrSignatureMismatch;
// the order stays in payment_pending. Verifying a payment that is already resolved
// returns the prior outcome without re-checking the signature, which also covers a
// concurrent verify that won the race.
type VerifyPaymentCommandHandler struct {
	uowFactory PaymentUoWFactory
	gate       services.PaymentGate
}

func NewVerifyPaymentCommandHandler(uowFactory PaymentUoWFactory, gate services.PaymentGate) VerifyPaymentCommandHandler {
	return VerifyPaymentCommandHandler{uowFactory: uowFactory, gate: gate}
}

func (h VerifyPaymentCommandHandler) Handle(ctx context.Context, command VerifyPaymentCommand) (*payment.Payment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	paymentRepo := uow.PaymentRepository()
	p, err := paymentRepo.Get(ctx, command.paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status().IsTerminal() {
		return priorOutcome(p)
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, p.OrderID())
	if err != nil {
		return nil, err
	}

	verifyErr := h.gate.Verify(p, o, command.gatewayOrderID, command.gatewayPaymentID, command.signature, time.Now().UTC())
	if verifyErr != nil && !errors.Is(verifyErr, payment.ErrSignatureMismatch) {
		return nil, verifyErr
	}

	if err = paymentRepo.Resolve(ctx, p); err != nil {
		if errors.Is(err, payment.ErrAlreadyResolved) {
			_ = uow.Rollback(ctx)
			return h.reload(ctx, command.paymentID)
		}
		return nil, err
	}

	if verifyErr != nil {
		if err = uow.Commit(ctx); err != nil {
			return nil, err
		}
		return p, verifyErr
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, orderConflict(err)
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (h VerifyPaymentCommandHandler) reload(ctx context.Context, paymentID kernel.UUID) (*payment.Payment, error) {
	p, err := h.uowFactory.Create().PaymentRepository().Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return priorOutcome(p)
}

func priorOutcome(p *payment.Payment) (*payment.Payment, error) {
	if p.Status() == payment.StatusFailed {
		return p, payment.ErrPaymentFailed
	}
	return p, nil
}
