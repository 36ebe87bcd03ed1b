package kpi

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders a USD amount with grouping and no decimals.
func FormatCurrency(value float64) string {
	return printer.Sprintf("$%v", number.Decimal(value, number.MaxFractionDigits(0)))
}

// FormatNumber renders an integer quantity with locale grouping.
func FormatNumber(value float64) string {
	return printer.Sprintf("%v", number.Decimal(value, number.MaxFractionDigits(0)))
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}
