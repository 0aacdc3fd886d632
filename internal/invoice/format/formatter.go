package format

import (
	"fmt"
	"strings"
)

// NCF formats a fiscal receipt number: series code plus a zero-padded
// eight-digit sequence, e.g. B0100000042.
func NCF(series string, seq int64) string {
	return fmt.Sprintf("%s%08d", series, seq)
}

// Currency formats minor currency units as Dominican pesos with thousands
// separators, e.g. RD$1,234.56. Locale and currency code are fixed.
func Currency(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := amount / 100
	cents := amount % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%sRD$%s.%02d", sign, b.String(), cents)
}
