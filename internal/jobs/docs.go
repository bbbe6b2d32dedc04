// Package jobs provides scheduled background tasks for the delivery coordination core.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. AutoDispatchJob - Runs every second, proposing ready orders to the nearest available rider
// 2. ProposalExpiryJob - Runs every five seconds, returning unaccepted proposals to the pool
// 3. NotificationRelayJob - Runs every second, handing stored notifications to the broker
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		dispatchHandler, jobs.DispatchSettings{RadiusMeters: 5000, CandidateLimit: 20, BatchSize: 50},
//		expireHandler, 100,
//		relayHandler, 100,
//		logger,
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// An empty dispatch pool is not logged. Lost races (the order was claimed or cancelled
// in between) are skipped inside the command handlers. Everything else is logged with
// the component name and retried on the next tick.
package jobs
