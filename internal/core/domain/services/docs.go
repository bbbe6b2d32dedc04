// Package services contains the domain services that coordinate several aggregates:
//
//   - AssignmentCoordinator matches ready orders with riders (claim, propose, accept,
//     decline, expire) and enforces the single-claim and capacity rules in memory.
//   - PaymentGate creates payments, verifies gateway signatures and confirms orders
//     on settlement.
//
// Services never touch storage. Atomicity across concurrent callers comes from the
// conditional updates the repositories apply when the handlers persist the result.
package services
