// Package ports defines the contracts between the coordination core and its infrastructure:
// repositories, the unit of work, the payment gateway and the notification sink.
package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Committing it also writes a notification for every event the tracked orders raised,
// so notifications are emitted exactly once per accepted transition.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit drains tracked order events into notifications and commits.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and discards tracked events.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	RiderRepository() RiderRepository
	PaymentRepository() PaymentRepository
	NotificationRepository() NotificationRepository
}
