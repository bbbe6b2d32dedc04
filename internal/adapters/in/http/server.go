package http

import (
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups the use cases the HTTP adapter exposes.
type Handlers struct {
	// Command handlers
	CreateOrder       commands.CreateOrderCommandHandler
	AdvanceOrder      commands.AdvanceOrderCommandHandler
	CancelOrder       commands.CancelOrderCommandHandler
	InitiatePayment   commands.InitiatePaymentCommandHandler
	VerifyPayment     commands.VerifyPaymentCommandHandler
	GatewayCallback   commands.GatewayCallbackCommandHandler
	ProposeAssignment commands.ProposeAssignmentCommandHandler
	ClaimOrder        commands.ClaimOrderCommandHandler
	AcceptAssignment  commands.AcceptAssignmentCommandHandler
	DeclineAssignment commands.DeclineAssignmentCommandHandler
	RegisterRider     commands.RegisterRiderCommandHandler
	UpdateLocation    commands.UpdateRiderLocationCommandHandler
	SetRiderStatus    commands.SetRiderStatusCommandHandler
	MarkRead          commands.MarkNotificationReadCommandHandler

	// Query handlers
	GetOrder             queries.GetOrderQueryHandler
	ListAssignableOrders queries.ListAssignableOrdersQueryHandler
	FindAvailableRiders  queries.FindAvailableRidersQueryHandler
	ListNotifications    queries.ListNotificationsQueryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	doc      *openapi3.T
}

// NewServer builds the adapter. doc is the API description requests are validated against
// (see api.Load).
func NewServer(handlers Handlers, doc *openapi3.T) *Server {
	return &Server{handlers: handlers, doc: doc}
}

// RegisterRoutes mounts the API under /api/v1 and the document under /swagger. Every route
// except the gateway callback requires the actor headers; the callback is authenticated by
// its signature.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	validate := RequestValidator(s.doc)
	e.POST("/api/v1/payments/callback", s.GatewayCallback, validate)

	api := e.Group("/api/v1", ActorRequired(), validate)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/assignable", s.ListAssignableOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/status", s.AdvanceOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/payments", s.InitiatePayment)
	api.POST("/orders/:id/proposals", s.ProposeAssignment)
	api.POST("/orders/:id/claim", s.ClaimOrder)
	api.POST("/orders/:id/accept", s.AcceptAssignment)
	api.POST("/orders/:id/decline", s.DeclineAssignment)

	api.POST("/payments/:id/verify", s.VerifyPayment)

	api.POST("/riders", s.RegisterRider)
	api.GET("/riders/available", s.FindAvailableRiders)
	api.PUT("/riders/:id/location", s.UpdateRiderLocation)
	api.PUT("/riders/:id/status", s.SetRiderStatus)

	api.GET("/restaurants/:id/notifications", s.ListNotifications)
	api.POST("/notifications/:id/read", s.MarkNotificationRead)
}
