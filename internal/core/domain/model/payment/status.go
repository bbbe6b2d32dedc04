package payment

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status of a payment. Pending resolves exactly once to Success or Failed.
//
//	Pending ──┬──> Success
//	          └──> Failed
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusSuccess
	StatusFailed
)

var statusNames = map[Status]string{
	StatusPending: "pending",
	StatusSuccess: "success",
	StatusFailed:  "failed",
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether the payment has resolved.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}
