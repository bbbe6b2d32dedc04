package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	postgres_adapter "fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/postgres/notificationrepo"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/model/rider"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, order_history, riders, payments, notifications").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.RiderRepository())
	suite.NotNil(uow1.PaymentRepository())
	suite.NotNil(uow1.NotificationRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_GeoSearchTimeout() {
	origin, err := kernel.NewLocation(77.6245, 12.9352)
	suite.Require().NoError(err)
	suite.storeRider()

	factory := postgres_adapter.NewGormUnitOfWorkFactory(suite.db).WithGeoSearchTimeout(time.Nanosecond)
	_, err = factory.Create().RiderRepository().FindAvailable(context.Background(), origin, 5000, 10)

	suite.Require().ErrorIs(err, errs.ErrUpstreamUnavailable)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "a second Begin must not nest")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WritesOneNotificationPerOrderEvent() {
	ctx := context.Background()
	o := createTestOrder(suite)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal(1, suite.countNotifications(o))

	uow = suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.ConfirmPayment(time.Now().UTC()))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal(2, suite.countNotifications(o))

	var newOrder notificationrepo.NotificationDTO
	err = suite.db.Where("order_id = ? AND type = ?", o.ID().Bytes(), string(notification.TypeNewOrder)).
		First(&newOrder).Error
	suite.Require().NoError(err)
	suite.Equal(o.RestaurantID().Bytes(), newOrder.RestaurantID)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsOrderAndNotifications() {
	ctx := context.Background()
	o := createTestOrder(suite)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().Error(err)
	suite.Equal(0, suite.countNotifications(o))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_ClaimAndRiderUpdateAreAtomic() {
	ctx := context.Background()
	o := suite.storeReadyOrder()
	r := suite.storeRider()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loadedOrder, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	loadedRider, err := uow.RiderRepository().Get(ctx, r.ID())
	suite.Require().NoError(err)

	riderActor, err := kernel.NewActor(r.ID(), kernel.RoleRider)
	suite.Require().NoError(err)
	suite.Require().NoError(loadedOrder.AssignRider(riderActor, r.ID(), order.ModeClaim, time.Now().UTC()))
	suite.Require().NoError(loadedRider.TakeOrder(o.ID(), 1))
	suite.Require().NoError(uow.OrderRepository().Claim(ctx, loadedOrder))
	suite.Require().NoError(uow.RiderRepository().Update(ctx, loadedRider))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	storedOrder, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	storedRider, err := reader.RiderRepository().Get(ctx, r.ID())
	suite.Require().NoError(err)

	suite.Equal(order.Assigned, storedOrder.Status())
	suite.True(storedRider.Holds(o.ID()))
	suite.Equal(rider.StatusBusy, storedRider.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_FailedRiderWriteRollsBackClaim() {
	ctx := context.Background()
	o := suite.storeReadyOrder()
	r := suite.storeRider()

	stale, err := suite.factory.Create().RiderRepository().Get(ctx, r.ID())
	suite.Require().NoError(err)

	// someone else writes the rider first
	fresh, err := suite.factory.Create().RiderRepository().Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(fresh.SetStatus(rider.StatusAvailable))
	suite.Require().NoError(suite.factory.Create().RiderRepository().Update(ctx, fresh))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loadedOrder, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loadedOrder.AssignRider(kernel.DispatcherActor(), r.ID(), order.ModeProposal, time.Now().UTC()))
	suite.Require().NoError(stale.TakeOrder(o.ID(), 1))
	suite.Require().NoError(uow.OrderRepository().Claim(ctx, loadedOrder))
	suite.Require().Error(uow.RiderRepository().Update(ctx, stale))
	suite.Require().NoError(uow.Rollback(ctx))

	storedOrder, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.ReadyForPickup, storedOrder.Status())
	suite.Nil(storedOrder.RiderID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentClaims_OneRiderGetsTheOrder() {
	ctx := context.Background()
	o := suite.storeReadyOrder()

	const riders = 5
	contenders := make([]*rider.Rider, 0, riders)
	for range riders {
		contenders = append(contenders, suite.storeRider())
	}

	results := make([]error, riders)
	var wg sync.WaitGroup
	for i, r := range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = suite.claim(ctx, o.ID(), r.ID())
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		}
	}
	suite.Equal(1, winners)

	reader := suite.factory.Create()
	stored, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(stored.RiderID())

	holders := 0
	for _, r := range contenders {
		loaded, getErr := reader.RiderRepository().Get(ctx, r.ID())
		suite.Require().NoError(getErr)
		if loaded.Holds(o.ID()) {
			holders++
			suite.Equal(r.ID(), *stored.RiderID())
		}
	}
	suite.Equal(1, holders)
}

func (suite *UnitOfWorkIntegrationTestSuite) claim(ctx context.Context, orderID, riderID kernel.UUID) error {
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}
	r, err := uow.RiderRepository().Get(ctx, riderID)
	if err != nil {
		return err
	}

	actor, err := kernel.NewActor(riderID, kernel.RoleRider)
	if err != nil {
		return err
	}
	if err = o.AssignRider(actor, riderID, order.ModeClaim, time.Now().UTC()); err != nil {
		return err
	}
	if err = r.TakeOrder(orderID, 1); err != nil {
		return err
	}
	if err = uow.OrderRepository().Claim(ctx, o); err != nil {
		return err
	}
	if err = uow.RiderRepository().Update(ctx, r); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (suite *UnitOfWorkIntegrationTestSuite) storeReadyOrder() *order.Order {
	o := createTestOrder(suite)
	restaurant, err := kernel.NewActor(o.RestaurantID(), kernel.RoleRestaurant)
	suite.Require().NoError(err)

	now := time.Now().UTC()
	suite.Require().NoError(o.ConfirmPayment(now))
	suite.Require().NoError(o.StartPreparing(restaurant, now))
	suite.Require().NoError(o.MarkReady(restaurant, now))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(context.Background()))
	suite.Require().NoError(uow.OrderRepository().Add(context.Background(), o))
	suite.Require().NoError(uow.Commit(context.Background()))
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) storeRider() *rider.Rider {
	loc, err := kernel.NewLocation(77.5950, 12.9720)
	suite.Require().NoError(err)
	r, err := rider.NewRider(kernel.NewUUID(), kernel.NewUUID(), loc, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().RiderRepository().Add(context.Background(), r))
	return r
}

func (suite *UnitOfWorkIntegrationTestSuite) countNotifications(o *order.Order) int {
	var count int64
	err := suite.db.Model(&notificationrepo.NotificationDTO{}).
		Where("order_id = ?", o.ID().Bytes()).
		Count(&count).Error
	suite.Require().NoError(err)
	return int(count)
}

func createTestOrder(suite *UnitOfWorkIntegrationTestSuite) *order.Order {
	pickup, err := kernel.NewLocation(77.5946, 12.9716)
	suite.Require().NoError(err)
	dropLocation, err := kernel.NewLocation(77.6101, 12.9352)
	suite.Require().NoError(err)
	drop, err := order.NewAddress("12 MG Road", dropLocation)
	suite.Require().NoError(err)
	price, err := kernel.MoneyFromString("99.00")
	suite.Require().NoError(err)
	item, err := order.NewItem("idli", 3, price)
	suite.Require().NoError(err)
	customer, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleCustomer)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(), customer.ID(), kernel.NewUUID(), []order.Item{item},
		pickup, drop, payment.MethodCard, customer, time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
