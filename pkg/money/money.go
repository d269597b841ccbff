package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter formatea montos con los separadores del locale (es-CO: 25.000,00).
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter crea un formateador. Un locale inválido cae a es-CO.
func NewFormatter(locale, currency string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("es-CO")
	}
	return &Formatter{printer: message.NewPrinter(tag), currency: currency}
}

// Format devuelve "<moneda> <monto>" con dos decimales.
func (f *Formatter) Format(d decimal.Decimal) string {
	amount := f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
	if f.currency == "" {
		return amount
	}
	return f.currency + " " + amount
}
