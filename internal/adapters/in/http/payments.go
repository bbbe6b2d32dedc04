package http

import (
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"

	"github.com/labstack/echo/v4"
)

// InitiatePayment handles POST /api/v1/orders/:id/payments.
func (s *Server) InitiatePayment(ctx echo.Context) error {
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	var body NewPayment
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	method, err := payment.ParseMethod(body.Method)
	if err != nil {
		return fail(ctx, err)
	}
	amount, err := kernel.MoneyFromString(body.Amount)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewInitiatePaymentCommand(kernel.NewUUID(), orderID, actorFrom(ctx), method, amount)
	if err != nil {
		return fail(ctx, err)
	}

	p, err := s.handlers.InitiatePayment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, paymentFrom(p))
}

// VerifyPayment handles POST /api/v1/payments/:id/verify, the client-side payment assertion.
func (s *Server) VerifyPayment(ctx echo.Context) error {
	paymentID, err := pathID(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	var body PaymentAssertion
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewVerifyPaymentCommand(paymentID, body.GatewayOrderID, body.GatewayPaymentID, body.Signature)
	if err != nil {
		return fail(ctx, err)
	}

	p, err := s.handlers.VerifyPayment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, paymentFrom(p))
}

// GatewayCallback handles POST /api/v1/payments/callback. The gateway is not an actor;
// the signature is what authenticates the request.
func (s *Server) GatewayCallback(ctx echo.Context) error {
	var body PaymentAssertion
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewGatewayCallbackCommand(body.GatewayOrderID, body.GatewayPaymentID, body.Signature)
	if err != nil {
		return fail(ctx, err)
	}

	p, err := s.handlers.GatewayCallback.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, paymentFrom(p))
}
