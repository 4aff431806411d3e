// Package pricing renders minor-unit prices for display. The catalog and
// checkout are denominated in USD cents; only the rendering is localized.
package pricing

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCents renders a USD amount in cents with a currency symbol for the
// given BCP 47 locale. Unparseable locales fall back to English.
func FormatCents(cents int, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	amount := currency.USD.Amount(float64(cents) / 100)
	return message.NewPrinter(tag).Sprint(currency.Symbol(amount))
}
