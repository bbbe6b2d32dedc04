package jobs

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ProposalExpiryJob returns proposals that were not accepted within the acceptance
// window to the pool. Runs every five seconds.
type ProposalExpiryJob struct {
	handler commands.ExpireProposalsCommandHandler
	limit   int
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewProposalExpiryJob(
	handler commands.ExpireProposalsCommandHandler,
	limit int,
	logger *slog.Logger,
) *ProposalExpiryJob {
	logger = logger.With("component", "proposal_expiry_job")
	return &ProposalExpiryJob{
		handler: handler,
		limit:   limit,
		cron:    newCron(logger),
		logger:  logger,
	}
}

func (j *ProposalExpiryJob) Start() error {
	cmd, err := commands.NewExpireProposalsCommand(j.limit)
	if err != nil {
		return err
	}

	_, err = j.cron.AddFunc(everyFiveSeconds, func() {
		ctx := context.Background()

		expired, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Proposal expiry job failed", "error", handleErr, "expired", expired)
			return
		}
		if expired > 0 {
			j.logger.InfoContext(ctx, "Lapsed proposals returned to the pool", "expired", expired)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Proposal expiry job started (running every 5 seconds)")
	return nil
}

func (j *ProposalExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Proposal expiry job stopped")
}
