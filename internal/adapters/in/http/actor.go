package http

import (
	"errors"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// The upstream auth layer authenticates the caller and forwards its identity in these headers.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"

	actorContextKey = "actor"
)

var errActorMissing = errors.New("actor headers are required")

// ActorRequired parses the actor headers and stores the actor on the echo context.
// Internal roles are rejected by kernel.ParseRole, so callers cannot act as the payment
// gate or the dispatcher.
func ActorRequired() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			actor, err := parseActor(ctx.Request().Header.Get(HeaderActorID), ctx.Request().Header.Get(HeaderActorRole))
			if err != nil {
				return fail(ctx, err)
			}
			ctx.Set(actorContextKey, actor)
			return next(ctx)
		}
	}
}

func parseActor(rawID, rawRole string) (kernel.Actor, error) {
	if strings.TrimSpace(rawID) == "" || strings.TrimSpace(rawRole) == "" {
		return kernel.Actor{}, errActorMissing
	}
	id, err := kernel.UUIDFromString(strings.TrimSpace(rawID))
	if err != nil {
		return kernel.Actor{}, err
	}
	role, err := kernel.ParseRole(rawRole)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(id, role)
}

func actorFrom(ctx echo.Context) kernel.Actor {
	actor, _ := ctx.Get(actorContextKey).(kernel.Actor)
	return actor
}
