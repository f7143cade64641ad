package render

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Placeholder shown for values the provider did not report.
const Placeholder = "-"

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
	trillion = decimal.NewFromInt(1_000_000_000_000)
)

// USD formats a price. Amounts of a dollar or more are shown in cents with
// grouping ("$67,000.50"); smaller amounts keep up to eight significant
// decimals so micro-cap prices stay readable.
func USD(d decimal.Decimal) string {
	if d.IsZero() {
		return Placeholder
	}
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1)) {
		cents := d.Shift(2).Round(0).IntPart()
		return money.New(cents, money.USD).Display()
	}
	s := d.Abs().Truncate(8).String()
	if d.IsNegative() {
		return "-$" + s
	}
	return "$" + s
}

// CompactUSD formats large amounts such as market cap with a magnitude
// suffix ("$1.32T").
func CompactUSD(d decimal.Decimal) string {
	if d.IsZero() {
		return Placeholder
	}
	abs := d.Abs()
	var unit decimal.Decimal
	var suffix string
	switch {
	case abs.GreaterThanOrEqual(trillion):
		unit, suffix = trillion, "T"
	case abs.GreaterThanOrEqual(billion):
		unit, suffix = billion, "B"
	case abs.GreaterThanOrEqual(million):
		unit, suffix = million, "M"
	case abs.GreaterThanOrEqual(thousand):
		unit, suffix = thousand, "K"
	default:
		return USD(d)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + abs.Div(unit).StringFixed(2) + suffix
}

// Percent formats a change with an explicit sign ("+2.35%").
func Percent(p float64) string {
	if p == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%+.2f%%", p)
}

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as a row of block glyphs, resampled to at most
// width points.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = values[i*len(values)/width]
		}
		values = sampled
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		i := 0
		if hi > lo {
			i = int((v - lo) / (hi - lo) * float64(len(sparkTicks)-1))
		}
		b.WriteRune(sparkTicks[i])
	}
	return b.String()
}

// cell escapes text for use inside a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	if s == "" {
		return Placeholder
	}
	return s
}
