package riderrepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/postgres/riderrepo"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/rider"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// Koramangala, Bengaluru. Offsets below are roughly 111 m per 0.001 degree of latitude.
const (
	originLon = 77.6245
	originLat = 12.9352
)

type RiderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *riderrepo.GormRiderRepository
	tracker    *MockAggregateTracker
}

func (suite *RiderRepositoryIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
}

func (suite *RiderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE riders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = riderrepo.NewGormRiderRepository(suite.db, suite.tracker)
}

func (suite *RiderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RiderRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTrips() {
	ctx := context.Background()
	r := suite.newRider(originLon, originLat)

	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", r.ID(), r).Once()
	suite.Require().NoError(riderrepo.NewGormRiderRepository(suite.db, tracker).Add(ctx, r))
	tracker.AssertExpectations(suite.T())

	loaded, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal(r.UserID(), loaded.UserID())
	suite.Equal(rider.StatusAvailable, loaded.Status())
	suite.InDelta(originLat, loaded.Location().Latitude(), 1e-9)
	suite.Empty(loaded.AssignedOrders())
	suite.Equal(1, loaded.Version())
}

func (suite *RiderRepositoryIntegrationTestSuite) TestAdd_SecondRiderForSameUser_Rejected() {
	ctx := context.Background()
	first := suite.newRider(originLon, originLat)
	suite.Require().NoError(suite.repository.Add(ctx, first))

	loc, err := kernel.NewLocation(originLon, originLat)
	suite.Require().NoError(err)
	second, err := rider.NewRider(kernel.NewUUID(), first.UserID(), loc, time.Now().UTC())
	suite.Require().NoError(err)

	err = suite.repository.Add(ctx, second)

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestGet_Missing_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestUpdate_PersistsAssignment() {
	ctx := context.Background()
	r := suite.storeRider(originLon, originLat)
	orderID := kernel.NewUUID()

	loaded, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.TakeOrder(orderID, 1))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	stored, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal(rider.StatusBusy, stored.Status())
	suite.True(stored.Holds(orderID))
	suite.Equal(2, stored.Version())
}

func (suite *RiderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsVersionConflict() {
	ctx := context.Background()
	r := suite.storeRider(originLon, originLat)

	first, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.TakeOrder(kernel.NewUUID(), 1))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.TakeOrder(kernel.NewUUID(), 1))
	err = suite.repository.Update(ctx, second)

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestUpdateLocation_DoesNotConflictWithStatusWrites() {
	ctx := context.Background()
	r := suite.storeRider(originLon, originLat)

	loaded, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)

	moved, err := kernel.NewLocation(originLon, originLat+0.01)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.UpdateLocation(ctx, r.ID(), moved, time.Now().UTC()))

	suite.Require().NoError(loaded.SetStatus(rider.StatusOffline))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	stored, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal(rider.StatusOffline, stored.Status())
	suite.InDelta(originLat+0.01, stored.Location().Latitude(), 1e-9)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestUpdateLocation_Missing_ReturnsNotFound() {
	loc, err := kernel.NewLocation(originLon, originLat)
	suite.Require().NoError(err)

	err = suite.repository.UpdateLocation(context.Background(), kernel.NewUUID(), loc, time.Now().UTC())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestFindAvailable_NearestFirstWithinRadius() {
	ctx := context.Background()
	far := suite.storeRider(originLon, originLat+0.02)    // ~2.2 km
	near := suite.storeRider(originLon, originLat+0.002)  // ~220 m
	middle := suite.storeRider(originLon, originLat+0.01) // ~1.1 km
	suite.storeRider(originLon, originLat+0.1)            // ~11 km, outside

	origin, err := kernel.NewLocation(originLon, originLat)
	suite.Require().NoError(err)

	found, err := suite.repository.FindAvailable(ctx, origin, 5000, 10)
	suite.Require().NoError(err)

	suite.Require().Len(found, 3)
	suite.Equal(near.ID(), found[0].Rider.ID())
	suite.Equal(middle.ID(), found[1].Rider.ID())
	suite.Equal(far.ID(), found[2].Rider.ID())
	suite.InDelta(222, found[0].DistanceMeters, 10)
	suite.LessOrEqual(found[0].DistanceMeters, found[1].DistanceMeters)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestFindAvailable_SkipsUnavailableRiders() {
	ctx := context.Background()
	busy := suite.storeRider(originLon, originLat+0.001)
	offline := suite.storeRider(originLon, originLat+0.002)
	available := suite.storeRider(originLon, originLat+0.003)

	b, err := suite.repository.Get(ctx, busy.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(b.TakeOrder(kernel.NewUUID(), 1))
	suite.Require().NoError(suite.repository.Update(ctx, b))

	o, err := suite.repository.Get(ctx, offline.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(o.SetStatus(rider.StatusOffline))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	origin, err := kernel.NewLocation(originLon, originLat)
	suite.Require().NoError(err)
	found, err := suite.repository.FindAvailable(ctx, origin, 1000, 10)
	suite.Require().NoError(err)

	suite.Require().Len(found, 1)
	suite.Equal(available.ID(), found[0].Rider.ID())
}

func (suite *RiderRepositoryIntegrationTestSuite) TestFindAvailable_RespectsLimit() {
	for i := range 5 {
		suite.storeRider(originLon, originLat+0.001*float64(i+1))
	}

	origin, err := kernel.NewLocation(originLon, originLat)
	suite.Require().NoError(err)
	found, err := suite.repository.FindAvailable(context.Background(), origin, 5000, 2)

	suite.Require().NoError(err)
	suite.Len(found, 2)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestFindAvailable_NobodyNearby_ReturnsEmpty() {
	suite.storeRider(originLon+1, originLat+1)

	origin, err := kernel.NewLocation(originLon, originLat)
	suite.Require().NoError(err)
	found, err := suite.repository.FindAvailable(context.Background(), origin, 3000, 10)

	suite.Require().NoError(err)
	suite.Empty(found)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestFindAvailable_UsesSpatialIndex() {
	var indexes int64
	err := suite.db.Raw(
		"SELECT count(*) FROM pg_indexes WHERE tablename = 'riders' AND indexdef ILIKE '%gist%ll_to_earth%'",
	).Scan(&indexes).Error

	suite.Require().NoError(err)
	suite.Equal(int64(1), indexes)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestFindAvailable_Timeout_ReturnsUpstreamUnavailable() {
	suite.storeRider(originLon, originLat)
	repository := suite.repository.WithSearchTimeout(time.Nanosecond)

	origin, err := kernel.NewLocation(originLon, originLat)
	suite.Require().NoError(err)
	_, err = repository.FindAvailable(context.Background(), origin, 3000, 10)

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrUpstreamUnavailable)
}

func (suite *RiderRepositoryIntegrationTestSuite) newRider(lon, lat float64) *rider.Rider {
	loc, err := kernel.NewLocation(lon, lat)
	suite.Require().NoError(err)
	r, err := rider.NewRider(kernel.NewUUID(), kernel.NewUUID(), loc, time.Now().UTC())
	suite.Require().NoError(err)
	return r
}

func (suite *RiderRepositoryIntegrationTestSuite) storeRider(lon, lat float64) *rider.Rider {
	r := suite.newRider(lon, lat)
	suite.Require().NoError(suite.repository.Add(context.Background(), r))
	return r
}

func TestRiderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RiderRepositoryIntegrationTestSuite))
}
