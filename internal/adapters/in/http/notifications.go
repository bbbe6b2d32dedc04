package http

import (
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// ListNotifications handles GET /api/v1/restaurants/:id/notifications?unread=&limit=,
// newest first.
func (s *Server) ListNotifications(ctx echo.Context) error {
	restaurantID, err := pathID(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	unreadOnly := false
	limit := defaultListLimit
	err = echo.QueryParamsBinder(ctx).
		Bool("unread", &unreadOnly).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return badRequest(ctx, "Invalid query parameters")
	}

	query, err := queries.NewListNotificationsQuery(restaurantID, actorFrom(ctx), unreadOnly, limit)
	if err != nil {
		return fail(ctx, err)
	}

	list, err := s.handlers.ListNotifications.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	response := make([]Notification, len(list))
	for i, n := range list {
		response[i] = notificationFrom(n)
	}
	return ctx.JSON(http.StatusOK, response)
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read.
func (s *Server) MarkNotificationRead(ctx echo.Context) error {
	notificationID, err := pathID(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewMarkNotificationReadCommand(notificationID, actorFrom(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	if err = s.handlers.MarkRead.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
