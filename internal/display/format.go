package display

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUSD renders a price with a dollar sign and a precision that suits
// its magnitude: sub-dollar assets keep more fractional digits.
func FormatUSD(v decimal.Decimal) string {
	abs := v.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return "$" + groupThousands(v.StringFixed(2))
	case abs.IsZero():
		return "$0.00"
	default:
		return "$" + v.StringFixed(6)
	}
}

// FormatCompact renders large magnitudes with a metric suffix, e.g. market
// caps and volumes.
func FormatCompact(v decimal.Decimal) string {
	abs := v.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000_000)):
		return "$" + v.Div(decimal.NewFromInt(1_000_000_000_000)).StringFixed(2) + "T"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000)):
		return "$" + v.Div(decimal.NewFromInt(1_000_000_000)).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return "$" + v.Div(decimal.NewFromInt(1_000_000)).StringFixed(2) + "M"
	default:
		return "$" + groupThousands(v.StringFixed(0))
	}
}

// FormatPct renders a signed percentage with two decimals.
func FormatPct(v decimal.Decimal) string {
	s := v.StringFixed(2) + "%"
	if v.Sign() > 0 {
		return "+" + s
	}
	return s
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
