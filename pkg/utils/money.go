package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders an amount with thousands separators and two decimals, e.g. "1,234.50".
func FormatMoney(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return moneyPrinter.Sprintf("%.2f", f)
}

// FormatPeso renders an amount with the currency sign used on receipts and exports.
func FormatPeso(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-P" + FormatMoney(amount.Abs())
	}
	return "P" + FormatMoney(amount)
}
