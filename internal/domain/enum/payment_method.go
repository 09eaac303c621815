package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is how an order was settled
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentGCash PaymentMethod = "gcash"
	PaymentMaya  PaymentMethod = "maya"
	PaymentCard  PaymentMethod = "card"
)

// PaymentMethods lists every accepted method in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentGCash, PaymentMaya, PaymentCard}

func (p PaymentMethod) IsValid() bool {
	for _, m := range PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

func (p PaymentMethod) String() string {
	return string(p)
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(str)))
	if m == "" {
		m = PaymentCash
	}
	if !m.IsValid() {
		return fmt.Errorf("unknown payment method %q", str)
	}
	*p = m
	return nil
}
