package queries

import (
	"fmt"

	"fooddelivery/internal/core/domain/model/order"
)

// ErrNotVisible is returned when an actor asks for data that belongs to someone else.
var ErrNotVisible = fmt.Errorf("%w: not visible to actor", order.ErrUnauthorizedTransition)
