package order

import (
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

// Item is one ordered line: a menu item reference, how many, and the unit price
// at the time the order was placed.
type Item struct {
	ref       string
	quantity  int
	unitPrice kernel.Money
}

// NewItem validates a line item. Quantity must be positive.
func NewItem(ref string, quantity int, unitPrice kernel.Money) (Item, error) {
	if strings.TrimSpace(ref) == "" {
		return Item{}, errs.NewValueIsRequiredError("item ref")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := unitPrice.Validate(); err != nil {
		return Item{}, err
	}

	return Item{ref: ref, quantity: quantity, unitPrice: unitPrice}, nil
}

func (i Item) Ref() string {
	return i.ref
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal is unit price times quantity.
func (i Item) Subtotal() kernel.Money {
	return i.unitPrice.Mul(i.quantity)
}

// Address is where the order is delivered: free text for the rider plus coordinates.
type Address struct {
	street   string
	location kernel.Location
}

func NewAddress(street string, location kernel.Location) (Address, error) {
	if err := location.Validate(); err != nil {
		return Address{}, err
	}
	if strings.TrimSpace(street) == "" {
		return Address{}, errs.NewValueIsRequiredError("street")
	}
	return Address{street: street, location: location}, nil
}

func (a Address) Street() string {
	return a.street
}

func (a Address) Location() kernel.Location {
	return a.location
}

func totalOf(items []Item) kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
