// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fooddelivery/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks only for the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	RiderRepoFactory interface {
		RiderRepository() ports.RiderRepository
	}

	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RiderUoW manages transactions for rider-only operations.
	RiderUoW interface {
		TxManager
		RiderRepoFactory
	}

	RiderUoWFactory interface {
		Create() RiderUoW
	}

	// AssignmentUoW spans orders and riders: claims, proposals, releases, delivery and cancellation.
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//   err = uow.OrderRepository().Claim(ctx, o)
	//   err = uow.RiderRepository().Update(ctx, r)
	//   err = uow.Commit(ctx)
	AssignmentUoW interface {
		TxManager
		OrderRepoFactory
		RiderRepoFactory
	}

	AssignmentUoWFactory interface {
		Create() AssignmentUoW
	}

	// PaymentUoW spans payments and the orders they settle.
	PaymentUoW interface {
		TxManager
		OrderRepoFactory
		PaymentRepoFactory
	}

	PaymentUoWFactory interface {
		Create() PaymentUoW
	}

	// NotificationUoW manages transactions for notification bookkeeping.
	NotificationUoW interface {
		TxManager
		NotificationRepoFactory
	}

	NotificationUoWFactory interface {
		Create() NotificationUoW
	}
)
