package commands

import (
	"errors"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrExpireProposalsCommandIsNotConstructed = errors.New(
	"ExpireProposalsCommand must be created via NewExpireProposalsCommand constructor",
)

// ExpireProposalsCommand sweeps proposals left unanswered past the acceptance window.
type ExpireProposalsCommand struct {
	limit int

	guard guard.ConstructorGuard
}

func NewExpireProposalsCommand(limit int) (ExpireProposalsCommand, error) {
	if limit <= 0 {
		return ExpireProposalsCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return ExpireProposalsCommand{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireProposalsCommand) Validate() error {
	return c.guard.Validate(ErrExpireProposalsCommandIsNotConstructed)
}
