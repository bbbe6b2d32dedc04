package cmd

import (
	"context"
	"log/slog"

	"fooddelivery/api"
	httpin "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"

	"gorm.io/gorm"
)

const defaultExpiryBatchSize = 100

type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	coordinator services.AssignmentCoordinator
	gate        services.PaymentGate
	gateway     ports.PaymentGateway
	publisher   ports.NotificationPublisher
}

// NewCompositionRoot wires the core to its adapters. Zero policy values in config fall
// back to services.DefaultAssignmentPolicy.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	gateway ports.PaymentGateway,
	publisher ports.NotificationPublisher,
) (CompositionRoot, error) {
	gate, err := services.NewPaymentGate(config.PaymentGatewaySecret)
	if err != nil {
		return CompositionRoot{}, err
	}

	policy := services.DefaultAssignmentPolicy()
	if config.AcceptanceWindow > 0 {
		policy.AcceptanceWindow = config.AcceptanceWindow
	}
	if config.MaxProposals > 0 {
		policy.MaxProposals = config.MaxProposals
	}
	if config.RiderMaxActiveOrders > 0 {
		policy.RiderCapacity = config.RiderMaxActiveOrders
	}

	return CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB).WithGeoSearchTimeout(config.GeoQueryTimeout),
		coordinator: services.NewAssignmentCoordinator(policy),
		gate:        gate,
		gateway:     gateway,
		publisher:   publisher,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) riderUoWFactory() commands.RiderUoWFactory {
	return FuncRiderUoWFactory(func() commands.RiderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) assignmentUoWFactory() commands.AssignmentUoWFactory {
	return FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) paymentUoWFactory() commands.PaymentUoWFactory {
	return FuncPaymentUoWFactory(func() commands.PaymentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) notificationUoWFactory() commands.NotificationUoWFactory {
	return FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	return commands.NewAdvanceOrderCommandHandler(c.assignmentUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.assignmentUoWFactory())
}

func (c *CompositionRoot) CreateInitiatePaymentCommandHandler() commands.InitiatePaymentCommandHandler {
	return commands.NewInitiatePaymentCommandHandler(c.paymentUoWFactory(), c.gate, c.gateway)
}

func (c *CompositionRoot) CreateVerifyPaymentCommandHandler() commands.VerifyPaymentCommandHandler {
	return commands.NewVerifyPaymentCommandHandler(c.paymentUoWFactory(), c.gate)
}

func (c *CompositionRoot) CreateGatewayCallbackCommandHandler() commands.GatewayCallbackCommandHandler {
	return commands.NewGatewayCallbackCommandHandler(c.paymentUoWFactory(), c.CreateVerifyPaymentCommandHandler())
}

func (c *CompositionRoot) CreateProposeAssignmentCommandHandler() commands.ProposeAssignmentCommandHandler {
	return commands.NewProposeAssignmentCommandHandler(c.assignmentUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.assignmentUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreateAcceptAssignmentCommandHandler() commands.AcceptAssignmentCommandHandler {
	return commands.NewAcceptAssignmentCommandHandler(c.orderUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreateDeclineAssignmentCommandHandler() commands.DeclineAssignmentCommandHandler {
	return commands.NewDeclineAssignmentCommandHandler(c.assignmentUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreateAutoDispatchCommandHandler() commands.AutoDispatchCommandHandler {
	return commands.NewAutoDispatchCommandHandler(c.assignmentUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreateExpireProposalsCommandHandler() commands.ExpireProposalsCommandHandler {
	return commands.NewExpireProposalsCommandHandler(c.assignmentUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreateRegisterRiderCommandHandler() commands.RegisterRiderCommandHandler {
	return commands.NewRegisterRiderCommandHandler(c.riderUoWFactory())
}

func (c *CompositionRoot) CreateUpdateRiderLocationCommandHandler() commands.UpdateRiderLocationCommandHandler {
	return commands.NewUpdateRiderLocationCommandHandler(c.riderUoWFactory())
}

func (c *CompositionRoot) CreateSetRiderStatusCommandHandler() commands.SetRiderStatusCommandHandler {
	return commands.NewSetRiderStatusCommandHandler(c.riderUoWFactory())
}

func (c *CompositionRoot) CreateRelayNotificationsCommandHandler() commands.RelayNotificationsCommandHandler {
	return commands.NewRelayNotificationsCommandHandler(c.notificationUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() commands.MarkNotificationReadCommandHandler {
	return commands.NewMarkNotificationReadCommandHandler(c.notificationUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListAssignableOrdersQueryHandler() queries.ListAssignableOrdersQueryHandler {
	return queries.NewListAssignableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateFindAvailableRidersQueryHandler() queries.FindAvailableRidersQueryHandler {
	return queries.NewFindAvailableRidersQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateListNotificationsQueryHandler() queries.ListNotificationsQueryHandler {
	return queries.NewListNotificationsQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the inbound HTTP adapter over every use case. It fails if the
// embedded API document does not load.
func (c *CompositionRoot) CreateHTTPServer(ctx context.Context) (*httpin.Server, error) {
	doc, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		AdvanceOrder:      c.CreateAdvanceOrderCommandHandler(),
		CancelOrder:       c.CreateCancelOrderCommandHandler(),
		InitiatePayment:   c.CreateInitiatePaymentCommandHandler(),
		VerifyPayment:     c.CreateVerifyPaymentCommandHandler(),
		GatewayCallback:   c.CreateGatewayCallbackCommandHandler(),
		ProposeAssignment: c.CreateProposeAssignmentCommandHandler(),
		ClaimOrder:        c.CreateClaimOrderCommandHandler(),
		AcceptAssignment:  c.CreateAcceptAssignmentCommandHandler(),
		DeclineAssignment: c.CreateDeclineAssignmentCommandHandler(),
		RegisterRider:     c.CreateRegisterRiderCommandHandler(),
		UpdateLocation:    c.CreateUpdateRiderLocationCommandHandler(),
		SetRiderStatus:    c.CreateSetRiderStatusCommandHandler(),
		MarkRead:          c.CreateMarkNotificationReadCommandHandler(),

		GetOrder:             c.CreateGetOrderQueryHandler(),
		ListAssignableOrders: c.CreateListAssignableOrdersQueryHandler(),
		FindAvailableRiders:  c.CreateFindAvailableRidersQueryHandler(),
		ListNotifications:    c.CreateListNotificationsQueryHandler(),
	}, doc), nil
}

// CreateJobManager builds the auto-dispatch, proposal expiry and notification relay jobs.
func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	expiryBatch := c.config.ExpiryBatchSize
	if expiryBatch <= 0 {
		expiryBatch = defaultExpiryBatchSize
	}
	return jobs.NewJobManager(
		c.CreateAutoDispatchCommandHandler(),
		jobs.DispatchSettings{
			RadiusMeters:   c.config.DispatchRadiusMeters,
			CandidateLimit: c.config.DispatchCandidateLimit,
			BatchSize:      c.config.DispatchBatchSize,
		},
		c.CreateExpireProposalsCommandHandler(),
		expiryBatch,
		c.CreateRelayNotificationsCommandHandler(),
		c.config.NotificationRelayBatch,
		logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRiderUoWFactory func() commands.RiderUoW

func (f FuncRiderUoWFactory) Create() commands.RiderUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}

type FuncPaymentUoWFactory func() commands.PaymentUoW

func (f FuncPaymentUoWFactory) Create() commands.PaymentUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}
