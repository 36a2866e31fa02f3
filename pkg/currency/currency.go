// Package currency renders engine output for display. Formatting is a
// presentation concern; the calculation pipeline itself only ever sees plain
// float64 values.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var symbols = map[string]string{
	"IDR": "Rp",
	"USD": "$",
	"EUR": "€",
	"SAR": "﷼",
	"VND": "₫",
	"MYR": "RM",
	"SGD": "S$",
}

// zeroDecimalCodes are currencies conventionally displayed without cents.
var zeroDecimalCodes = map[string]bool{
	"IDR": true,
	"VND": true,
}

var printer = message.NewPrinter(language.English)

// Format renders an amount with thousands grouping and the currency symbol,
// e.g. Format(50000, "IDR") == "Rp50,000". Unknown codes fall back to the
// code itself as a prefix.
func Format(amount float64, code string) string {
	symbol, ok := symbols[code]
	if !ok {
		symbol = code + " "
	}

	scale := 2
	if zeroDecimalCodes[code] {
		scale = 0
	}

	return printer.Sprintf("%s%v", symbol, number.Decimal(amount, number.Scale(scale)))
}
