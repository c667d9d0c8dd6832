// Package format renders raw numeric results for display.
//
// Formatting is pure and total: every float64 maps to a string, with
// NaN and infinities rendering as "Error". The engine stores formatted
// values alongside raw ones so the UI never re-derives them.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/roach88/tally/internal/model"
)

// printer applies en-US grouping ("12,345.67"). Formatting is
// display-only; parsing never round-trips through these strings.
var printer = message.NewPrinter(language.AmericanEnglish)

// Format renders value according to its semantic type. It never panics
// and never returns an empty string.
func Format(value float64, t model.SemanticType) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "Error"
	}
	switch t {
	case model.SemanticCurrency:
		return currency(value)
	case model.SemanticPercentage:
		return fmt.Sprintf("%.1f%%", value)
	case model.SemanticDuration:
		return duration(value)
	default:
		return plain(value)
	}
}

// currency renders dollars with grouping, collapsing to K/M suffixes at
// 1e3/1e6 so canvas badges stay short.
func currency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e6:
		return sign + "$" + trimOneDecimal(v/1e6) + "M"
	case v >= 1e3:
		return sign + "$" + trimOneDecimal(v/1e3) + "K"
	default:
		return sign + printer.Sprintf("$%v", number.Decimal(v,
			number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}
}

// trimOneDecimal renders with one decimal place, dropping a trailing
// ".0" so 12000 becomes "12K" rather than "12.0K".
func trimOneDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// duration renders a fractional-year quantity as a human string:
// days below one month, months below one year, "Xy Zm" beyond, with
// whole years keeping the plain "N years" form.
func duration(years float64) string {
	if years < 0 {
		years = 0
	}
	months := years * 12
	switch {
	case months < 1:
		days := int(math.Round(years * 365))
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	case years < 1:
		m := int(math.Round(months))
		if m >= 12 {
			return "1 year"
		}
		if m == 1 {
			return "1 month"
		}
		return fmt.Sprintf("%d months", m)
	default:
		y := int(years)
		m := int(math.Round((years - float64(y)) * 12))
		if m >= 12 {
			y++
			m = 0
		}
		if m == 0 {
			if y == 1 {
				return "1 year"
			}
			return fmt.Sprintf("%d years", y)
		}
		return fmt.Sprintf("%dy %dm", y, m)
	}
}

// plain renders a number with grouping and at most two decimals,
// trimming trailing zeros.
func plain(v float64) string {
	rounded := math.Round(v*100) / 100
	if rounded == math.Trunc(rounded) {
		return printer.Sprintf("%v", number.Decimal(rounded, number.MaxFractionDigits(0)))
	}
	return printer.Sprintf("%v", number.Decimal(rounded, number.MaxFractionDigits(2)))
}
