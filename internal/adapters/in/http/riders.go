package http

import (
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/rider"

	"github.com/labstack/echo/v4"
)

const (
	defaultSearchRadiusMeters = 5000.0
	defaultSearchLimit        = 20
)

// RegisterRider handles POST /api/v1/riders.
func (s *Server) RegisterRider(ctx echo.Context) error {
	var body NewRider
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actor := actorFrom(ctx)
	riderID := actor.ID()
	if body.RiderID != nil {
		id, err := kernel.UUIDFromString(*body.RiderID)
		if err != nil {
			return fail(ctx, err)
		}
		riderID = id
	}
	userID, err := kernel.UUIDFromString(body.UserID)
	if err != nil {
		return fail(ctx, err)
	}
	location, err := body.Location.toDomain()
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewRegisterRiderCommand(riderID, userID, location, actor)
	if err != nil {
		return fail(ctx, err)
	}

	r, err := s.handlers.RegisterRider.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, riderFrom(r))
}

// UpdateRiderLocation handles PUT /api/v1/riders/:id/location.
func (s *Server) UpdateRiderLocation(ctx echo.Context) error {
	riderID, err := pathID(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	var body Location
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	location, err := body.toDomain()
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewUpdateRiderLocationCommand(riderID, location, actorFrom(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	if err = s.handlers.UpdateLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SetRiderStatus handles PUT /api/v1/riders/:id/status (going on or off shift).
func (s *Server) SetRiderStatus(ctx echo.Context) error {
	riderID, err := pathID(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	var body RiderStatusChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	status, err := rider.ParseStatus(body.Status)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewSetRiderStatusCommand(riderID, status, actorFrom(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	r, err := s.handlers.SetRiderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, riderFrom(r))
}

// FindAvailableRiders handles GET /api/v1/riders/available?longitude=&latitude=&radius=&limit=.
func (s *Server) FindAvailableRiders(ctx echo.Context) error {
	var longitude, latitude float64
	radius := defaultSearchRadiusMeters
	limit := defaultSearchLimit
	err := echo.QueryParamsBinder(ctx).
		MustFloat64("longitude", &longitude).
		MustFloat64("latitude", &latitude).
		Float64("radius", &radius).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return badRequest(ctx, "Invalid search parameters")
	}

	origin, err := kernel.NewLocation(longitude, latitude)
	if err != nil {
		return fail(ctx, err)
	}
	query, err := queries.NewFindAvailableRidersQuery(origin, radius, limit)
	if err != nil {
		return fail(ctx, err)
	}

	nearby, err := s.handlers.FindAvailableRiders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	response := make([]AvailableRider, len(nearby))
	for i, r := range nearby {
		response[i] = AvailableRider{
			ID:             r.ID.String(),
			Location:       locationFrom(r.Location),
			LastUpdated:    r.LastUpdated,
			DistanceMeters: r.DistanceMeters,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}
