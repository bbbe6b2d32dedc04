package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DispatchSettings bound the auto-dispatch search.
type DispatchSettings struct {
	RadiusMeters   float64
	CandidateLimit int
	BatchSize      int
}

// AutoDispatchJob proposes pooled orders to the nearest available riders.
// Runs every second; a tick that is still running when the next one fires is skipped.
type AutoDispatchJob struct {
	handler  commands.AutoDispatchCommandHandler
	settings DispatchSettings
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewAutoDispatchJob(
	handler commands.AutoDispatchCommandHandler,
	settings DispatchSettings,
	logger *slog.Logger,
) *AutoDispatchJob {
	logger = logger.With("component", "auto_dispatch_job")
	return &AutoDispatchJob{
		handler:  handler,
		settings: settings,
		cron:     newCron(logger),
		logger:   logger,
	}
}

// Start validates the settings and schedules the job.
func (j *AutoDispatchJob) Start() error {
	cmd, err := commands.NewAutoDispatchCommand(j.settings.RadiusMeters, j.settings.CandidateLimit, j.settings.BatchSize)
	if err != nil {
		return err
	}

	_, err = j.cron.AddFunc(everySecond, func() {
		ctx := context.Background()

		proposed, handleErr := j.handler.Handle(ctx, cmd)
		switch {
		case errors.Is(handleErr, commands.ErrNoAssignableOrder):
			// empty pool
		case handleErr != nil:
			j.logger.ErrorContext(ctx, "Auto-dispatch job failed", "error", handleErr, "proposed", proposed)
		case proposed > 0:
			j.logger.InfoContext(ctx, "Orders proposed to riders", "proposed", proposed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto-dispatch job started (running every second)")
	return nil
}

func (j *AutoDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Auto-dispatch job stopped")
}
