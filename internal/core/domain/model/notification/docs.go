// Package notification holds the records produced by the notification emitter.
// They are written in the same transaction as the order change that caused them and
// later relayed to the external sink; delivery transport is someone else's concern.
package notification
