package order

import (
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
)

// HistoryEntry records one accepted transition. Seq starts at 1 and increases by one per
// entry, which lets storage append entries idempotently.
type HistoryEntry struct {
	Seq       int
	From      Status
	To        Status
	ActorID   kernel.UUID
	ActorRole kernel.Role
	Note      string
	At        time.Time
}

// EventKind distinguishes the domain events an order raises.
type EventKind int

const (
	EventStatusChanged EventKind = iota + 1
	EventAssignmentAccepted
	EventEscalated
)

// Event is raised once per accepted change and drained by the unit of work
// into a notification in the same transaction.
type Event struct {
	Kind         EventKind
	OrderID      kernel.UUID
	RestaurantID kernel.UUID
	From         Status
	To           Status
	Actor        kernel.Actor
	RiderID      *kernel.UUID
	Note         string
	OccurredAt   time.Time
}

// Message renders the event as the human readable notification text.
func (e Event) Message() string {
	switch e.Kind {
	case EventAssignmentAccepted:
		return fmt.Sprintf("Order %s accepted by rider %s", e.OrderID, e.RiderID)
	case EventEscalated:
		return fmt.Sprintf("Order %s needs manual rider assignment: %s", e.OrderID, e.Note)
	default:
		msg := fmt.Sprintf("Order %s is now %s", e.OrderID, e.To)
		if e.Note != "" {
			msg += " (" + e.Note + ")"
		}
		return msg
	}
}
