// Package money formatea precios en reales para las vistas y el PDF.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL devuelve "R$ 1.234,50".
func FormatBRL(v decimal.Decimal) string {
	return "R$ " + printer.Sprint(number.Decimal(v.Round(2).InexactFloat64(), number.Scale(2)))
}
