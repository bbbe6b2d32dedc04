package rider

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status is the rider's availability. Busy is derived: a rider is busy exactly when it
// holds at least one undelivered order, so it is never set directly.
type Status int

const (
	StatusUnknown Status = iota
	StatusAvailable
	StatusBusy
	StatusOffline
)

var statusNames = map[Status]string{
	StatusAvailable: "available",
	StatusBusy:      "busy",
	StatusOffline:   "offline",
}

func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("rider status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("rider status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}
