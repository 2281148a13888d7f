// Package inr formats rupee amounts and rates for people to read.
package inr

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format renders a rupee amount with Indian digit grouping, e.g. ₹12,34,567.50
func Format(amount decimal.Decimal) string {
	return printer.Sprintf("₹%.2f", amount.Round(2).InexactFloat64())
}

// Percent renders a fraction such as 0.3 as 30.00%
func Percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
