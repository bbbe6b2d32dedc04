package commands

import (
	"errors"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrAutoDispatchCommandIsNotConstructed = errors.New(
	"AutoDispatchCommand must be created via NewAutoDispatchCommand constructor",
)

// AutoDispatchCommand proposes pooled orders to the nearest eligible riders.
//
// Example:
//
//	cmd, err := NewAutoDispatchCommand(5000, 20, 10)
//	if err != nil {
//	    return err
//	}
//	proposed, err := handler.Handle(ctx, cmd)
type AutoDispatchCommand struct {
	radiusMeters   float64
	candidateLimit int
	batchSize      int

	guard guard.ConstructorGuard
}

func NewAutoDispatchCommand(radiusMeters float64, candidateLimit, batchSize int) (AutoDispatchCommand, error) {
	var err error
	if radiusMeters <= 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("radius", radiusMeters, 0, "unbounded"))
	}
	if candidateLimit <= 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("candidate limit", candidateLimit, 1, "unbounded"))
	}
	if batchSize <= 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded"))
	}
	if err != nil {
		return AutoDispatchCommand{}, err
	}

	return AutoDispatchCommand{
		radiusMeters:   radiusMeters,
		candidateLimit: candidateLimit,
		batchSize:      batchSize,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c AutoDispatchCommand) Validate() error {
	return c.guard.Validate(ErrAutoDispatchCommandIsNotConstructed)
}
