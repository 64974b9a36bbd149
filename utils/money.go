package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatTHB formats an amount in baht as a string like "฿12,500". Fractional
// amounts (possible with the 1.5 multiplier) are rendered with two decimals,
// e.g. "฿187.50"; whole amounts carry no decimal part.
func FormatTHB(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	// Round to two decimals first so the carry lands in the whole part.
	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	s := strconv.FormatInt(whole, 10)

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + symbol + decimals
	b.Grow(len(s) + len(s)/3 + 6)
	if neg {
		b.WriteString("-฿")
	} else {
		b.WriteString("฿")
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}

	if frac != 0 {
		b.WriteByte('.')
		if frac < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatInt(frac, 10))
	}

	return b.String()
}
