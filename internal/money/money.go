// Package money formats prices for display in the storefront's single locale.
package money

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Defaults used by the storefront.
const (
	DefaultLocale   = "es-MX"
	DefaultCurrency = "MXN"
)

// symbols maps supported ISO codes to the narrow symbol shown in es-MX.
var symbols = map[string]string{
	"MXN": "$",
	"USD": "US$",
}

// Formatter renders amounts with a fixed locale and currency and zero
// fraction digits, e.g. 1234.5 → "$1,235".
type Formatter struct {
	unit    currency.Unit
	symbol  string
	printer *message.Printer
}

// NewFormatter validates the locale and currency code.
func NewFormatter(locale, code string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}
	return &Formatter{
		unit:    unit,
		symbol:  symbol,
		printer: message.NewPrinter(tag),
	}, nil
}

// MustFormatter is NewFormatter for fixed, known-good arguments.
func MustFormatter(locale, code string) *Formatter {
	f, err := NewFormatter(locale, code)
	if err != nil {
		panic(err)
	}
	return f
}

// Default returns the es-MX / MXN formatter.
func Default() *Formatter {
	return MustFormatter(DefaultLocale, DefaultCurrency)
}

// Currency returns the ISO code the formatter renders.
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Format renders n rounded half away from zero to a whole unit.
// NaN renders as "$NaN" so corrupted totals stay visible instead of panicking.
func (f *Formatter) Format(n float64) string {
	switch {
	case math.IsNaN(n):
		return f.symbol + "NaN"
	case math.IsInf(n, 1):
		return f.symbol + "∞"
	case math.IsInf(n, -1):
		return "-" + f.symbol + "∞"
	}

	rounded := math.Round(n)
	if rounded == 0 {
		// Avoid "-$0" for small negatives.
		rounded = 0
	}
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return sign + f.symbol + f.printer.Sprintf("%d", int64(rounded))
}
