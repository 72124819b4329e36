// Package money formats whole currency amounts for display.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Japanese)

// Format renders an amount with the yen sign and thousands separators,
// e.g. 150000 -> "¥150,000".
func Format(amount int64) string {
	if amount < 0 {
		return "-¥" + printer.Sprintf("%d", -amount)
	}
	return "¥" + printer.Sprintf("%d", amount)
}

// Number renders an amount with thousands separators and no symbol.
func Number(amount int64) string {
	return printer.Sprintf("%d", amount)
}

// Percent renders a percentage with one decimal, e.g. 66.666 -> "66.7%".
func Percent(p float64) string {
	return printer.Sprintf("%.1f%%", p)
}
