// Package postgres provides the GORM-based Unit of Work. A unit of work spans the
// repositories a command touches and doubles as the notification outbox: every event
// raised by an order it tracked is written as a notification row in the same transaction
// that persisted the transition.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.RiderRepository().Update(ctx, r); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Repositories obtained before Begin run against the plain connection. Commands use
// that for reads and single-statement writes that need no transaction.
package postgres

import (
	"context"
	"time"

	"fooddelivery/internal/adapters/out/postgres/notificationrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/adapters/out/postgres/paymentrepo"
	"fooddelivery/internal/adapters/out/postgres/riderrepo"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db               *gorm.DB
	geoSearchTimeout time.Duration
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// WithGeoSearchTimeout bounds the rider directory's proximity queries. Zero keeps
// riderrepo.DefaultSearchTimeout.
func (f *GormUnitOfWorkFactory) WithGeoSearchTimeout(timeout time.Duration) *GormUnitOfWorkFactory {
	clone := *f
	clone.geoSearchTimeout = timeout
	return &clone
}

// Create produces a fresh unit of work. Instances are not safe for concurrent use;
// every command takes its own.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		geoSearchTimeout:  f.geoSearchTimeout,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	geoSearchTimeout  time.Duration
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it twice does not nest.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit writes the outbox rows for tracked orders and commits. If the outbox write
// fails the transaction is rolled back, so a transition is never stored without its
// notifications.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := uow.drainEvents(ctx); err != nil {
		_ = uow.tx.Rollback().Error
		uow.reset()
		return err
	}

	err := uow.tx.Commit().Error
	uow.reset()
	return err
}

// Rollback discards the transaction and everything tracked in it.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.reset()
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) RiderRepository() ports.RiderRepository {
	repo := riderrepo.NewGormRiderRepository(uow.conn(), uow)
	if uow.geoSearchTimeout > 0 {
		return repo.WithSearchTimeout(uow.geoSearchTimeout)
	}
	return repo
}

func (uow *GormUnitOfWork) PaymentRepository() ports.PaymentRepository {
	return paymentrepo.NewGormPaymentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) NotificationRepository() ports.NotificationRepository {
	return notificationrepo.NewGormNotificationRepository(uow.conn())
}

// TrackAggregate registers an aggregate written through one of the repositories.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) drainEvents(ctx context.Context) error {
	notifications := notificationrepo.NewGormNotificationRepository(uow.tx)
	for _, tracked := range uow.trackedAggregates {
		o, ok := tracked.Aggregate.(*order.Order)
		if !ok {
			continue
		}

		for _, event := range o.PopEvents() {
			n, err := notification.FromOrderEvent(kernel.NewUUID(), event)
			if err != nil {
				return err
			}
			if err = notifications.Add(ctx, n); err != nil {
				return err
			}
		}
	}
	return nil
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) reset() {
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
}
