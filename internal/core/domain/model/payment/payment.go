package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

var (
	// ErrPaymentIsNotConstructed is returned when a Payment skipped NewPayment or RestorePayment.
	ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment constructor")

	// ErrAmountMismatch is returned when the asserted amount differs from the order total.
	ErrAmountMismatch = fmt.Errorf("%w: amount mismatch", errs.ErrValueIsInvalid)

	// ErrSignatureMismatch is returned when the gateway signature does not verify.
	// The payment is marked failed before this error is returned.
	ErrSignatureMismatch = fmt.Errorf("%w: signature mismatch", errs.ErrValueIsInvalid)

	// ErrGatewayOrderMismatch is returned when a verification names a gateway order that
	// does not belong to the payment. The payment is left untouched.
	ErrGatewayOrderMismatch = fmt.Errorf("%w: gateway order does not match payment", errs.ErrValueIsInvalid)

	// ErrPaymentFailed is returned when verifying a payment that already resolved to failed.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrAlreadyResolved is returned when settling or failing a payment that is no longer pending.
	ErrAlreadyResolved = fmt.Errorf("%w: payment already resolved", errs.ErrIllegalTransition)
)

// Payment is a settlement attempt for one order. An order may accumulate several payments
// (one per retry after failure); at most one of them reaches Success because the order
// leaves payment_pending on the first settlement.
type Payment struct {
	id               kernel.UUID
	orderID          kernel.UUID
	payerID          kernel.UUID
	amount           kernel.Money
	method           Method
	status           Status
	gatewayOrderID   string
	gatewayPaymentID string
	createdAt        time.Time
	resolvedAt       *time.Time

	isConstructed bool
}

// NewPayment creates a pending payment. COD payments are settled on creation:
// nothing external has to confirm them.
//
// For UPI and card the gateway order id is the payment id itself, for MethodGateway
// it must be attached with AttachGatewayOrder before the payment is stored.
func NewPayment(
	id, orderID, payerID kernel.UUID,
	amount kernel.Money,
	method Method,
	now time.Time,
) (*Payment, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), payerID.Validate(), amount.Validate(), method.Validate()); err != nil {
		return nil, err
	}

	p := &Payment{
		id:            id,
		orderID:       orderID,
		payerID:       payerID,
		amount:        amount,
		method:        method,
		status:        StatusPending,
		createdAt:     now,
		isConstructed: true,
	}

	switch method {
	case MethodUPI, MethodCard:
		p.gatewayOrderID = id.String()
	case MethodCOD:
		p.status = StatusSuccess
		p.resolvedAt = &now
	}

	return p, nil
}

// RestorePayment rebuilds a payment loaded from storage.
func RestorePayment(
	id, orderID, payerID kernel.UUID,
	amount kernel.Money,
	method Method,
	status Status,
	gatewayOrderID, gatewayPaymentID string,
	createdAt time.Time,
	resolvedAt *time.Time,
) (*Payment, error) {
	if err := errors.Join(
		id.Validate(), orderID.Validate(), payerID.Validate(),
		amount.Validate(), method.Validate(), status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Payment{
		id:               id,
		orderID:          orderID,
		payerID:          payerID,
		amount:           amount,
		method:           method,
		status:           status,
		gatewayOrderID:   gatewayOrderID,
		gatewayPaymentID: gatewayPaymentID,
		createdAt:        createdAt,
		resolvedAt:       resolvedAt,
		isConstructed:    true,
	}, nil
}

func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}
	return nil
}

func (p *Payment) ID() kernel.UUID {
	return p.id
}

func (p *Payment) OrderID() kernel.UUID {
	return p.orderID
}

func (p *Payment) PayerID() kernel.UUID {
	return p.payerID
}

func (p *Payment) Amount() kernel.Money {
	return p.amount
}

func (p *Payment) Method() Method {
	return p.method
}

func (p *Payment) Status() Status {
	return p.status
}

func (p *Payment) GatewayOrderID() string {
	return p.gatewayOrderID
}

func (p *Payment) GatewayPaymentID() string {
	return p.gatewayPaymentID
}

func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Payment) ResolvedAt() *time.Time {
	return p.resolvedAt
}

func (p *Payment) IsSettled() bool {
	return p.status == StatusSuccess
}

func (p *Payment) NeedsGatewayOrder() bool {
	return p.method == MethodGateway && p.gatewayOrderID == ""
}

// AttachGatewayOrder records the order id the gateway issued for a MethodGateway payment.
func (p *Payment) AttachGatewayOrder(gatewayOrderID string) error {
	if p.method != MethodGateway {
		return errs.NewValueIsInvalidErrorWithCause("gateway order id",
			fmt.Errorf("method %s does not use gateway orders", p.method))
	}
	if strings.TrimSpace(gatewayOrderID) == "" {
		return errs.NewValueIsRequiredError("gateway order id")
	}
	p.gatewayOrderID = gatewayOrderID
	return nil
}

// Settle resolves a pending payment to Success.
func (p *Payment) Settle(gatewayPaymentID string, now time.Time) error {
	if p.status != StatusPending {
		return fmt.Errorf("%w: %s", ErrAlreadyResolved, p.status)
	}
	if p.method == MethodGateway && gatewayPaymentID == "" {
		return errs.NewValueIsRequiredError("gateway payment id")
	}

	p.status = StatusSuccess
	p.gatewayPaymentID = gatewayPaymentID
	p.resolvedAt = &now
	return nil
}

// Fail resolves a pending payment to Failed.
func (p *Payment) Fail(now time.Time) error {
	if p.status != StatusPending {
		return fmt.Errorf("%w: %s", ErrAlreadyResolved, p.status)
	}

	p.status = StatusFailed
	p.resolvedAt = &now
	return nil
}
