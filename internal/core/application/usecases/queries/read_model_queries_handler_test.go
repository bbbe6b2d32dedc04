package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/postgres/notificationrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(kernel.UUID, any) {}

type ReadModelQueriesTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	orderRepo *orderrepo.GormOrderRepository
}

func (suite *ReadModelQueriesTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, &mockAggregateTracker{})
}

func (suite *ReadModelQueriesTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ReadModelQueriesTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, order_history, notifications").Error
	suite.Require().NoError(err)
}

func (suite *ReadModelQueriesTestSuite) TestListAssignableOrders_EmptyDatabase_ReturnsEmptySlice() {
	query, err := queries.NewListAssignableOrdersQuery(10)
	suite.Require().NoError(err)

	result, err := queries.NewListAssignableOrdersQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *ReadModelQueriesTestSuite) TestListAssignableOrders_OnlyUnheldReadyOrders() {
	ctx := context.Background()
	first := suite.storeReadyOrder()
	second := suite.storeReadyOrder()
	suite.storePlacedOrder()

	held, err := suite.orderRepo.Get(ctx, suite.storeReadyOrder().ID())
	suite.Require().NoError(err)
	suite.Require().NoError(held.AssignRider(kernel.DispatcherActor(), kernel.NewUUID(), order.ModeProposal, time.Now().UTC()))
	suite.Require().NoError(suite.orderRepo.Claim(ctx, held))

	query, err := queries.NewListAssignableOrdersQuery(10)
	suite.Require().NoError(err)
	result, err := queries.NewListAssignableOrdersQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(first.ID(), result[0].ID)
	suite.Equal(second.ID(), result[1].ID)
	suite.Equal(first.RestaurantID(), result[0].RestaurantID)
	suite.True(first.Total().Equal(result[0].Total))
	suite.False(result[0].ReadyAt.IsZero())
}

func (suite *ReadModelQueriesTestSuite) TestGetOrder_ReturnsItemsAndHistory() {
	o := suite.storeReadyOrder()
	customer, err := kernel.NewActor(o.CustomerID(), kernel.RoleCustomer)
	suite.Require().NoError(err)

	query, err := queries.NewGetOrderQuery(o.ID(), customer)
	suite.Require().NoError(err)
	result, err := queries.NewGetOrderQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(order.ReadyForPickup, result.Status)
	suite.Equal(payment.MethodCard, result.PaymentMethod)
	suite.Equal("12 MG Road", result.DeliveryStreet)
	suite.Nil(result.RiderID)
	suite.Require().Len(result.Items, 1)
	suite.Equal("idli", result.Items[0].Ref)
	suite.Require().Len(result.History, 4)
	suite.Equal(order.Created, result.History[0].From)
	suite.Equal(order.PaymentPending, result.History[0].To)
	suite.Equal(kernel.RolePaymentGate, result.History[1].ActorRole)
	suite.Nil(result.History[1].ActorID)
	suite.Equal(order.ReadyForPickup, result.History[3].To)
}

func (suite *ReadModelQueriesTestSuite) TestGetOrder_Visibility() {
	o := suite.storeReadyOrder()
	handler := queries.NewGetOrderQueryHandler(suite.db)

	outsiders := []kernel.Role{kernel.RoleCustomer, kernel.RoleRestaurant, kernel.RoleRider}
	for _, role := range outsiders {
		outsider, err := kernel.NewActor(kernel.NewUUID(), role)
		suite.Require().NoError(err)

		query, err := queries.NewGetOrderQuery(o.ID(), outsider)
		suite.Require().NoError(err)
		_, err = handler.Handle(context.Background(), query)

		suite.ErrorIs(err, queries.ErrNotVisible, role)
	}

	restaurant, err := kernel.NewActor(o.RestaurantID(), kernel.RoleRestaurant)
	suite.Require().NoError(err)
	query, err := queries.NewGetOrderQuery(o.ID(), restaurant)
	suite.Require().NoError(err)
	_, err = handler.Handle(context.Background(), query)
	suite.NoError(err)
}

func (suite *ReadModelQueriesTestSuite) TestGetOrder_Missing_ReturnsNotFound() {
	admin, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleAdmin)
	suite.Require().NoError(err)

	query, err := queries.NewGetOrderQuery(kernel.NewUUID(), admin)
	suite.Require().NoError(err)
	_, err = queries.NewGetOrderQueryHandler(suite.db).Handle(context.Background(), query)

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ReadModelQueriesTestSuite) TestListNotifications_NewestFirstAndUnreadFilter() {
	ctx := context.Background()
	restaurantID := kernel.NewUUID()
	repo := notificationrepo.NewGormNotificationRepository(suite.db)

	base := time.Now().UTC().Add(-time.Hour)
	older := suite.newNotification(restaurantID, base)
	newer := suite.newNotification(restaurantID, base.Add(time.Minute))
	foreign := suite.newNotification(kernel.NewUUID(), base.Add(2*time.Minute))
	for _, n := range []*notification.Notification{older, newer, foreign} {
		suite.Require().NoError(repo.Add(ctx, n))
	}
	suite.Require().NoError(repo.MarkRead(ctx, newer.ID()))

	restaurant, err := kernel.NewActor(restaurantID, kernel.RoleRestaurant)
	suite.Require().NoError(err)
	handler := queries.NewListNotificationsQueryHandler(suite.db)

	all, err := queries.NewListNotificationsQuery(restaurantID, restaurant, false, 10)
	suite.Require().NoError(err)
	result, err := handler.Handle(ctx, all)
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(newer.ID(), result[0].ID)
	suite.Equal(notification.StatusRead, result[0].Status)
	suite.Equal(older.ID(), result[1].ID)

	unread, err := queries.NewListNotificationsQuery(restaurantID, restaurant, true, 10)
	suite.Require().NoError(err)
	result, err = handler.Handle(ctx, unread)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(older.ID(), result[0].ID)
}

func (suite *ReadModelQueriesTestSuite) newNotification(restaurantID kernel.UUID, at time.Time) *notification.Notification {
	n, err := notification.NewNotification(
		kernel.NewUUID(), restaurantID, kernel.NewUUID(), notification.TypeOrderUpdate, "order is ready", at,
	)
	suite.Require().NoError(err)
	return n
}

func (suite *ReadModelQueriesTestSuite) newOrder() *order.Order {
	pickup, err := kernel.NewLocation(77.5946, 12.9716)
	suite.Require().NoError(err)
	dropLocation, err := kernel.NewLocation(77.6101, 12.9352)
	suite.Require().NoError(err)
	drop, err := order.NewAddress("12 MG Road", dropLocation)
	suite.Require().NoError(err)
	price, err := kernel.MoneyFromString("45.00")
	suite.Require().NoError(err)
	item, err := order.NewItem("idli", 4, price)
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

func (suite *ReadModelQueriesTestSuite) storePlacedOrder() *order.Order {
	o := suite.newOrder()
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

func (suite *ReadModelQueriesTestSuite) storeReadyOrder() *order.Order {
	o := suite.newOrder()
	restaurant, err := kernel.NewActor(o.RestaurantID(), kernel.RoleRestaurant)
	suite.Require().NoError(err)

	now := time.Now().UTC()
	suite.Require().NoError(o.ConfirmPayment(now))
	suite.Require().NoError(o.StartPreparing(restaurant, now))
	suite.Require().NoError(o.MarkReady(restaurant, now))
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))

	time.Sleep(5 * time.Millisecond)
	return o
}

func TestReadModelQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(ReadModelQueriesTestSuite))
}
