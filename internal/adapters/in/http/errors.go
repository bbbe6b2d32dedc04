package http

import (
	"errors"
	"net/http"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps error families to HTTP status codes. Order matters: the authorization
// sentinels wrap errs.ErrIllegalTransition and must be matched before it.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errActorMissing):
		return http.StatusUnauthorized
	case errors.Is(err, payment.ErrSignatureMismatch), errors.Is(err, payment.ErrPaymentFailed):
		return http.StatusPaymentRequired
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrUnauthorizedTransition), errors.Is(err, order.ErrNotAssignedRider):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrAlreadyAssigned),
		errors.Is(err, errs.ErrIllegalTransition),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an Error body. Internal errors are logged and not echoed back.
func fail(ctx echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		ctx.Logger().Errorf("%s %s: %v", ctx.Request().Method, ctx.Path(), err)
		message = http.StatusText(code)
	}
	return ctx.JSON(code, Error{Code: code, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
