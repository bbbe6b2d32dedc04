package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrListAssignableOrdersQueryIsNotConstructed = errors.New(
	"ListAssignableOrdersQuery must be created via NewListAssignableOrdersQuery constructor",
)

// ListAssignableOrdersQuery reads the assignable pool: orders ready for pickup that no rider holds.
// Escalated orders are included so dispatch staff can see them.
type ListAssignableOrdersQuery struct {
	limit int
	guard guard.ConstructorGuard
}

func NewListAssignableOrdersQuery(limit int) (ListAssignableOrdersQuery, error) {
	if limit <= 0 || limit > 500 {
		return ListAssignableOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, 500)
	}
	return ListAssignableOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListAssignableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListAssignableOrdersQueryIsNotConstructed)
}

func (q ListAssignableOrdersQuery) Limit() int {
	return q.limit
}

type AssignableOrderResponse struct {
	ID              kernel.UUID
	RestaurantID    kernel.UUID
	Pickup          kernel.Location
	Total           kernel.Money
	ReadyAt         time.Time
	FailedProposals int
	Escalated       bool
}
