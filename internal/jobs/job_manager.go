package jobs

import (
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	everySecond      = "* * * * * *"
	everyFiveSeconds = "*/5 * * * * *"
)

// newCron returns a seconds-resolution scheduler that recovers panicking ticks and skips
// a tick while the previous one is still running.
func newCron(logger *slog.Logger) *cron.Cron {
	cronLogger := slogCronLogger{logger: logger}
	return cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
}

// slogCronLogger routes the scheduler's own messages to slog. Routine scheduling
// chatter is logged at debug level.
type slogCronLogger struct {
	logger *slog.Logger
}

func (l slogCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l slogCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

type job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []job
	started []job
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	dispatchHandler commands.AutoDispatchCommandHandler,
	dispatchSettings DispatchSettings,
	expireHandler commands.ExpireProposalsCommandHandler,
	expiryBatch int,
	relayHandler commands.RelayNotificationsCommandHandler,
	relayBatch int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		jobs: []job{
			NewAutoDispatchJob(dispatchHandler, dispatchSettings, logger),
			NewProposalExpiryJob(expireHandler, expiryBatch, logger),
			NewNotificationRelayJob(relayHandler, relayBatch, logger),
		},
	}
}

// StartAll starts all scheduled jobs.
// Failed job starts stop the jobs that already started.
func (jm *JobManager) StartAll() error {
	for _, j := range jm.jobs {
		if err := j.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %T: %w", j, err)
		}
		jm.started = append(jm.started, j)
	}
	return nil
}

// StopAll stops the started jobs, waiting for running ticks to finish.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}
