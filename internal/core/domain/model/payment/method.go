package payment

import (
	"fmt"
	"strings"

	"fooddelivery/internal/pkg/errs"
)

// Method is how the customer pays for an order.
type Method int

const (
	MethodUnknown Method = iota
	// MethodUPI is settled through the gateway client SDK; the gateway order id is the payment id.
	MethodUPI
	// MethodCard is settled through the gateway client SDK; the gateway order id is the payment id.
	MethodCard
	// MethodCOD bypasses the gate and settles immediately.
	MethodCOD
	// MethodGateway uses a gateway-side order created before the payment row is stored.
	MethodGateway
)

var methodNames = map[Method]string{
	MethodUPI:     "upi",
	MethodCard:    "card",
	MethodCOD:     "cod",
	MethodGateway: "gateway",
}

func ParseMethod(s string) (Method, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for m, name := range methodNames {
		if name == needle {
			return m, nil
		}
	}
	return MethodUnknown, errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", s))
}

func (m Method) Validate() error {
	if _, ok := methodNames[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%d is not a valid method", m))
	}
	return nil
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}

// IsCashOnDelivery reports whether the method skips gateway verification.
func (m Method) IsCashOnDelivery() bool {
	return m == MethodCOD
}
