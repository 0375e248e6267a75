// Package money formatea montos para textos dirigidos a personas (notificaciones).
// Los montos persistidos y los de la API siguen siendo decimal.Decimal sin formato.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-CO"))

// Format devuelve el monto con dos decimales y separadores locales: 1.234.567,89.
func Format(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
