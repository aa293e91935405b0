// Package format renders amounts, percentages and month labels for a locale.
package format

import (
	"math"
	"strconv"
	"strings"

	"fire-server/src/categories"
	"fire-server/src/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

const nbsp = "\u00a0"

// CurrencyFor returns the display currency of a locale.
func CurrencyFor(l categories.Locale) string {
	if l == categories.English {
		return "USD"
	}
	return "EUR"
}

// Convert converts amount between currencies using EUR-based rates. Unknown
// or zero rates leave the amount unchanged.
func Convert(amount float64, from, to string, rates models.Rates) float64 {
	if from == to || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	fromRate, toRate := rates.Get(from), rates.Get(to)
	if fromRate == 0 || toRate == 0 {
		return amount
	}
	v, _ := decimal.NewFromFloat(amount).
		Div(decimal.NewFromFloat(fromRate)).
		Mul(decimal.NewFromFloat(toRate)).
		Float64()
	return v
}

// Currency renders a EUR amount in the locale's currency with no decimals.
// English amounts are converted to USD when rates are given.
func Currency(value float64, l categories.Locale, rates *models.Rates) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	if l == categories.English && rates != nil {
		value = Convert(value, "EUR", "USD", *rates)
	}

	rounded := decimal.NewFromFloat(value).Round(0).IntPart()
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	digits := message.NewPrinter(l.Tag()).Sprintf("%d", rounded)

	if l == categories.English {
		return sign + "$" + digits
	}
	return sign + digits + nbsp + "€"
}

// Percent renders a percentage with one decimal.
func Percent(value float64, l categories.Locale) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	v, _ := decimal.NewFromFloat(value).Round(1).Float64()
	s := message.NewPrinter(l.Tag()).Sprintf("%.1f", v)
	if l == categories.English {
		return s + "%"
	}
	return s + nbsp + "%"
}

var shortMonths = map[categories.Locale][12]string{
	categories.Spanish: {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
	categories.English: {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

// MonthLabel renders a month as short month name and year, e.g. "ene 2024".
func MonthLabel(m models.Month, l categories.Locale) string {
	names, ok := shortMonths[l]
	if !ok {
		names = shortMonths[categories.DefaultLocale]
	}
	var b strings.Builder
	b.WriteString(names[m.Month()-1])
	b.WriteString(" ")
	b.WriteString(strconv.Itoa(m.Year()))
	return b.String()
}
