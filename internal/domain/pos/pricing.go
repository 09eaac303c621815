// Package pos holds the point-of-sale arithmetic and the per-cashier cart.
package pos

import (
	"strings"

	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	seniorPWDRate = decimal.RequireFromString("0.80")
	employeeRate  = decimal.RequireFromString("0.95")
)

// Option is a priced product, add-on or upgrade as captured in the cart.
type Option struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Discounts are the two independently toggled order discounts.
type Discounts struct {
	SeniorPWD bool `json:"senior_pwd"`
	Employee  bool `json:"employee"`
}

// Labels returns the names of the active discounts in application order.
func (d Discounts) Labels() []string {
	var out []string
	if d.SeniorPWD {
		out = append(out, "Senior/PWD 20%")
	}
	if d.Employee {
		out = append(out, "Employee 5%")
	}
	return out
}

// UnitPrice is the upgrade price (or the product price without one) plus every add-on.
func UnitPrice(product Option, upgrade *Option, addons []Option) decimal.Decimal {
	base := product.Price
	if upgrade != nil {
		base = upgrade.Price
	}
	for _, a := range addons {
		base = base.Add(a.Price)
	}
	return base
}

// CoercePrice parses a raw price; anything missing or non-numeric is 0.
func CoercePrice(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Subtotal sums final price times quantity over all lines.
func Subtotal(lines []CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Total applies the senior/PWD discount first and the employee discount to the
// reduced amount, rounding to cents only at the end.
func Total(subtotal decimal.Decimal, d Discounts) decimal.Decimal {
	total := subtotal
	if d.SeniorPWD {
		total = total.Mul(seniorPWDRate)
	}
	if d.Employee {
		total = total.Mul(employeeRate)
	}
	return total.Round(2)
}

// Change is tendered minus total, or 0 when nothing was tendered.
func Change(tendered, total decimal.Decimal) decimal.Decimal {
	if !tendered.IsPositive() {
		return decimal.Zero
	}
	return tendered.Sub(total)
}

// ValidatePayment parses the raw tendered amount and checks it covers total.
func ValidatePayment(rawTendered string, total decimal.Decimal) (decimal.Decimal, error) {
	raw := strings.TrimSpace(rawTendered)
	if raw == "" {
		return decimal.Zero, apperror.ErrInvalidPayment
	}
	tendered, err := decimal.NewFromString(raw)
	if err != nil || !tendered.IsPositive() {
		return decimal.Zero, apperror.ErrInvalidPayment
	}
	if tendered.LessThan(total) {
		return decimal.Zero, apperror.ErrInsufficientAmount
	}
	return tendered, nil
}

// Quote is the priced state of a cart.
type Quote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// Price quotes lines under the given discounts.
func Price(lines []CartLine, d Discounts) Quote {
	subtotal := Subtotal(lines)
	total := Total(subtotal, d)
	return Quote{
		Subtotal:       subtotal,
		DiscountAmount: subtotal.Sub(total),
		Total:          total,
	}
}
