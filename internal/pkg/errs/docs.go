// Package errs provides standardized error types for the order coordination core.
//
// Errors fall into the families callers react to differently:
//   - validation (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError):
//     malformed input, surfaced to the caller and never retried
//   - ObjectNotFoundError: the referenced order, rider, payment or notification does not exist
//   - ErrIllegalTransition: a rejected state change; domain packages wrap it with their own
//     sentinels (illegal order transition, unauthorized transition, not the assigned rider, ...)
//   - VersionIsInvalidError: an optimistic concurrency conflict detected at the storage boundary
//   - UpstreamUnavailableError: the payment gateway, geo backend or broker did not answer;
//     retried by the calling collaborator, never by the core
//
// Each typed error follows the same pattern: a sentinel, a struct with details,
// constructors with and without a cause, Error and Unwrap.
package errs
