package jobs

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// NotificationRelayJob hands stored notifications to the broker. Runs every second.
// A broker outage is logged and the batch is retried on the next tick.
type NotificationRelayJob struct {
	handler commands.RelayNotificationsCommandHandler
	batch   int
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewNotificationRelayJob(
	handler commands.RelayNotificationsCommandHandler,
	batch int,
	logger *slog.Logger,
) *NotificationRelayJob {
	logger = logger.With("component", "notification_relay_job")
	return &NotificationRelayJob{
		handler: handler,
		batch:   batch,
		cron:    newCron(logger),
		logger:  logger,
	}
}

func (j *NotificationRelayJob) Start() error {
	cmd, err := commands.NewRelayNotificationsCommand(j.batch)
	if err != nil {
		return err
	}

	_, err = j.cron.AddFunc(everySecond, func() {
		ctx := context.Background()

		if published, handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Notification relay job failed", "error", handleErr, "published", published)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification relay job started (running every second)")
	return nil
}

func (j *NotificationRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification relay job stopped")
}
