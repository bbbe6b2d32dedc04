// Package kernel holds the value objects shared by every aggregate of the order
// coordination core:
//   - UUID: identifiers that can never be the nil UUID
//   - Location: a validated [longitude, latitude] point with haversine distance
//   - Money: exact decimal amounts for prices, totals and payments
//   - Actor and Role: who performs a transition and in which capacity
//
// Values are immutable and safe for concurrent use.
package kernel
