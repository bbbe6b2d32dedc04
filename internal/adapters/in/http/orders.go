package http

import (
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := newCreateOrderCommand(actorFrom(ctx), body)
	if err != nil {
		return fail(ctx, err)
	}

	o, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, orderFrom(o))
}

func newCreateOrderCommand(actor kernel.Actor, body NewOrder) (commands.CreateOrderCommand, error) {
	restaurantID, err := kernel.UUIDFromString(body.RestaurantID)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	customerID := actor.ID()
	if body.CustomerID != nil {
		if customerID, err = kernel.UUIDFromString(*body.CustomerID); err != nil {
			return commands.CreateOrderCommand{}, err
		}
	}

	items := make([]order.Item, 0, len(body.Items))
	for _, it := range body.Items {
		price, priceErr := kernel.MoneyFromString(it.UnitPrice)
		if priceErr != nil {
			return commands.CreateOrderCommand{}, priceErr
		}
		item, itemErr := order.NewItem(it.Ref, it.Quantity, price)
		if itemErr != nil {
			return commands.CreateOrderCommand{}, itemErr
		}
		items = append(items, item)
	}

	pickup, err := body.Pickup.toDomain()
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	dropoff, err := kernel.NewLocation(body.Delivery.Longitude, body.Delivery.Latitude)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	address, err := order.NewAddress(body.Delivery.Street, dropoff)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	method, err := payment.ParseMethod(body.PaymentMethod)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	return commands.NewCreateOrderCommand(kernel.NewUUID(), actor, customerID, restaurantID, items, pickup, address, method)
}

// GetOrder handles GET /api/v1/orders/:id. Customers, restaurants and riders only see
// their own orders.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, actorFrom(ctx))
	if err != nil {
		return fail(ctx, err)
	}

	details, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderDetailsFrom(details))
}

// AdvanceOrder handles POST /api/v1/orders/:id/status.
func (s *Server) AdvanceOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	var body StatusChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	to, err := order.ParseStatus(body.Status)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewAdvanceOrderCommand(orderID, actorFrom(ctx), to)
	if err != nil {
		return fail(ctx, err)
	}

	o, err := s.handlers.AdvanceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFrom(o))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	var body Cancellation
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actorFrom(ctx), body.Reason)
	if err != nil {
		return fail(ctx, err)
	}

	o, err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFrom(o))
}
