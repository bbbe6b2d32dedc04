package queries_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/rider"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRiderDirectory struct {
	mock.Mock
	ports.RiderRepository
}

func (m *mockRiderDirectory) FindAvailable(
	ctx context.Context,
	origin kernel.Location,
	radiusMeters float64,
	limit int,
) ([]rider.Nearby, error) {
	args := m.Called(ctx, origin, radiusMeters, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rider.Nearby), args.Error(1)
}

type stubUnitOfWork struct {
	ports.UnitOfWork
	riders ports.RiderRepository
}

func (u stubUnitOfWork) RiderRepository() ports.RiderRepository {
	return u.riders
}

type stubUnitOfWorkFactory struct {
	uow ports.UnitOfWork
}

func (f stubUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.uow
}

func TestFindAvailableRidersQueryHandler_MapsDirectoryHits(t *testing.T) {
	ctx := context.Background()
	origin, err := kernel.NewLocation(77.59, 12.97)
	require.NoError(t, err)
	riderLoc, err := kernel.NewLocation(77.591, 12.971)
	require.NoError(t, err)
	r, err := rider.NewRider(kernel.NewUUID(), kernel.NewUUID(), riderLoc, time.Now().UTC())
	require.NoError(t, err)

	directory := new(mockRiderDirectory)
	directory.On("FindAvailable", ctx, origin, 2000.0, 5).
		Return([]rider.Nearby{{Rider: r, DistanceMeters: 152.4}}, nil).Once()
	handler := queries.NewFindAvailableRidersQueryHandler(stubUnitOfWorkFactory{uow: stubUnitOfWork{riders: directory}})

	query, err := queries.NewFindAvailableRidersQuery(origin, 2000, 5)
	require.NoError(t, err)
	result, err := handler.Handle(ctx, query)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, r.ID(), result[0].ID)
	assert.InDelta(t, 152.4, result[0].DistanceMeters, 1e-9)
	directory.AssertExpectations(t)
}

func TestFindAvailableRidersQueryHandler_DirectoryTimeoutPropagates(t *testing.T) {
	ctx := context.Background()
	origin, err := kernel.NewLocation(77.59, 12.97)
	require.NoError(t, err)

	directory := new(mockRiderDirectory)
	directory.On("FindAvailable", ctx, origin, 2000.0, 5).
		Return(nil, errs.NewUpstreamUnavailableError("rider directory", context.DeadlineExceeded)).Once()
	handler := queries.NewFindAvailableRidersQueryHandler(stubUnitOfWorkFactory{uow: stubUnitOfWork{riders: directory}})

	query, err := queries.NewFindAvailableRidersQuery(origin, 2000, 5)
	require.NoError(t, err)
	_, err = handler.Handle(ctx, query)

	assert.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
}

func TestFindAvailableRidersQueryHandler_NotConstructed(t *testing.T) {
	handler := queries.NewFindAvailableRidersQueryHandler(stubUnitOfWorkFactory{})

	_, err := handler.Handle(context.Background(), queries.FindAvailableRidersQuery{})

	assert.ErrorIs(t, err, queries.ErrFindAvailableRidersQueryIsNotConstructed)
}
