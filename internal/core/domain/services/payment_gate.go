package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"
)

// PaymentGate validates payment assertions and unlocks fulfillment on settlement.
//
// Signatures are hex(HMAC-SHA256(secret, gatewayOrderID + "|" + gatewayPaymentID)),
// the scheme the gateway uses to sign checkout results, and are compared in constant time.
type PaymentGate struct {
	secret []byte
}

func NewPaymentGate(secret string) (PaymentGate, error) {
	if secret == "" {
		return PaymentGate{}, errs.NewValueIsRequiredError("payment gateway secret")
	}
	return PaymentGate{secret: []byte(secret)}, nil
}

// Sign computes the signature the gateway is expected to send.
func (g PaymentGate) Sign(gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches the expected one.
func (g PaymentGate) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	expected := g.Sign(gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Initiate creates the payment for an order awaiting payment. The amount must equal the
// order total. Cash on delivery settles at once and confirms the order.
func (g PaymentGate) Initiate(
	o *order.Order,
	payer kernel.Actor,
	paymentID kernel.UUID,
	method payment.Method,
	amount kernel.Money,
	now time.Time,
) (*payment.Payment, error) {
	if err := errors.Join(o.Validate(), method.Validate(), amount.Validate()); err != nil {
		return nil, err
	}
	if o.Status() != order.PaymentPending {
		return nil, fmt.Errorf("%w: %s order is not awaiting payment", order.ErrIllegalTransition, o.Status())
	}
	if !payer.Is(kernel.RoleAdmin) && !(payer.Is(kernel.RoleCustomer) && payer.ID().IsEqual(o.CustomerID())) {
		return nil, fmt.Errorf("%w: only the ordering customer pays", order.ErrUnauthorizedTransition)
	}
	if !amount.Equal(o.Total()) {
		return nil, fmt.Errorf("%w: got %s, order total is %s", payment.ErrAmountMismatch, amount, o.Total())
	}

	p, err := payment.NewPayment(paymentID, o.ID(), o.CustomerID(), amount, method, now)
	if err != nil {
		return nil, err
	}

	if method.IsCashOnDelivery() {
		if err = o.ConfirmPayment(now); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Verify settles or fails a pending payment from a gateway assertion. On a valid signature the
// payment succeeds and the order is confirmed; on an invalid one the payment fails, the order
// stays in payment_pending, and ErrSignatureMismatch is returned.
//
// Resolved payments are not re-verified: the caller returns the prior result.
func (g PaymentGate) Verify(
	p *payment.Payment,
	o *order.Order,
	gatewayOrderID, gatewayPaymentID, signature string,
	now time.Time,
) error {
	if err := errors.Join(p.Validate(), o.Validate()); err != nil {
		return err
	}
	if !p.OrderID().IsEqual(o.ID()) {
		return errs.NewValueIsInvalidError("payment does not belong to order")
	}
	if p.GatewayOrderID() != gatewayOrderID {
		return payment.ErrGatewayOrderMismatch
	}

	if !g.VerifySignature(gatewayOrderID, gatewayPaymentID, signature) {
		if err := p.Fail(now); err != nil {
			return err
		}
		return payment.ErrSignatureMismatch
	}

	if err := p.Settle(gatewayPaymentID, now); err != nil {
		return err
	}
	return o.ConfirmPayment(now)
}
