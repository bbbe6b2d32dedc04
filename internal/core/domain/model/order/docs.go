// Package order implements the order state machine, the aggregate every other component
// of the coordination core revolves around.
//
// The lifecycle is a closed set of statuses joined by an explicit transition table. Each
// edge names the roles allowed to fire it, and the aggregate additionally checks ownership:
// restaurants act on their own orders, customers on theirs, and riders only on the orders
// assigned to them. Edges involving rider assignment are coordinated: only the assignment
// coordinator fires them, through AssignRider and ReleaseAssignment.
//
// Rejected operations never mutate the order. Accepted ones append a history entry and
// raise an Event that becomes a notification.
package order
