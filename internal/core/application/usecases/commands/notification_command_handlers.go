package commands

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
)

// RelayNotificationsCommandHandler publishes stored notifications in creation order and
// marks each one published in the same transaction that locked it. A publish failure
// stops the batch; the failed notification and everything after it are retried on the
// next run, so the sink sees each notification at least once.
type RelayNotificationsCommandHandler struct {
	uowFactory NotificationUoWFactory
	publisher  ports.NotificationPublisher
}

func NewRelayNotificationsCommandHandler(
	uowFactory NotificationUoWFactory,
	publisher ports.NotificationPublisher,
) RelayNotificationsCommandHandler {
	return RelayNotificationsCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle returns how many notifications were published.
func (h RelayNotificationsCommandHandler) Handle(ctx context.Context, command RelayNotificationsCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	pending, err := repo.ListUnpublished(ctx, command.limit)
	if err != nil {
		return 0, err
	}

	published := 0
	var publishErr error
	for _, n := range pending {
		if publishErr = h.publisher.Publish(ctx, n); publishErr != nil {
			break
		}
		now := time.Now().UTC()
		n.MarkPublished(now)
		if err = repo.MarkPublished(ctx, n.ID(), now); err != nil {
			return 0, err
		}
		published++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return published, publishErr
}

// MarkNotificationReadCommandHandler flips a notification to read. Restaurants may only
// read their own notifications.
type MarkNotificationReadCommandHandler struct {
	uowFactory NotificationUoWFactory
}

func NewMarkNotificationReadCommandHandler(uowFactory NotificationUoWFactory) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{uowFactory: uowFactory}
}

func (h MarkNotificationReadCommandHandler) Handle(ctx context.Context, command MarkNotificationReadCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	n, err := repo.Get(ctx, command.notificationID)
	if err != nil {
		return err
	}
	if command.actor.Is(kernel.RoleRestaurant) && !command.actor.ID().IsEqual(n.RestaurantID()) {
		return ErrActorMismatch
	}

	if err = repo.MarkRead(ctx, n.ID()); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
