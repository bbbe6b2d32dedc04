// Package payment models settlement attempts for orders.
//
// A Payment is created pending (or already successful for cash on delivery) and resolves
// exactly once. Resolution is persisted with a conditional update on the pending status,
// so concurrent verifications of the same payment settle it a single time.
package payment
