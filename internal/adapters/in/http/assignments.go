package http

import (
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const defaultListLimit = 50

// ListAssignableOrders handles GET /api/v1/orders/assignable?limit=.
func (s *Server) ListAssignableOrders(ctx echo.Context) error {
	limit := defaultListLimit
	if err := echo.QueryParamsBinder(ctx).Int("limit", &limit).BindError(); err != nil {
		return badRequest(ctx, "Invalid limit")
	}

	query, err := queries.NewListAssignableOrdersQuery(limit)
	if err != nil {
		return fail(ctx, err)
	}

	pool, err := s.handlers.ListAssignableOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	response := make([]AssignableOrder, len(pool))
	for i, o := range pool {
		response[i] = AssignableOrder{
			ID:              o.ID.String(),
			RestaurantID:    o.RestaurantID.String(),
			Pickup:          locationFrom(o.Pickup),
			Total:           o.Total.String(),
			ReadyAt:         o.ReadyAt,
			FailedProposals: o.FailedProposals,
			Escalated:       o.Escalated,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// ProposeAssignment handles POST /api/v1/orders/:id/proposals, a manual proposal by the
// restaurant or an admin.
func (s *Server) ProposeAssignment(ctx echo.Context) error {
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	var body Proposal
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	riderID, err := kernel.UUIDFromString(body.RiderID)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewProposeAssignmentCommand(orderID, riderID, actorFrom(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	o, err := s.handlers.ProposeAssignment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFrom(o))
}

// ClaimOrder handles POST /api/v1/orders/:id/claim. The acting rider claims the order
// for itself; a lost race is 409.
func (s *Server) ClaimOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, actorFrom(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	o, err := s.handlers.ClaimOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFrom(o))
}

// AcceptAssignment handles POST /api/v1/orders/:id/accept.
func (s *Server) AcceptAssignment(ctx echo.Context) error {
	cmd, err := respondCommand(ctx)
	if err != nil {
		return fail(ctx, err)
	}

	o, err := s.handlers.AcceptAssignment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFrom(o))
}

// DeclineAssignment handles POST /api/v1/orders/:id/decline.
func (s *Server) DeclineAssignment(ctx echo.Context) error {
	cmd, err := respondCommand(ctx)
	if err != nil {
		return fail(ctx, err)
	}

	o, err := s.handlers.DeclineAssignment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFrom(o))
}

func respondCommand(ctx echo.Context) (commands.RespondAssignmentCommand, error) {
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return commands.RespondAssignmentCommand{}, err
	}
	return commands.NewRespondAssignmentCommand(orderID, actorFrom(ctx))
}
