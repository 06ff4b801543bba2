package ledger

import (
	"math"
	"strconv"
	"strings"
)

// CoerceNumber converts free-form quantity/rate input into a float64 using a
// best-effort policy: surrounding whitespace is trimmed, a single leading
// currency symbol and digit-grouping commas are stripped, and the remainder
// is parsed as a decimal number. Anything that still fails to parse, as well
// as NaN and infinities, coerces to 0. Negative values pass through
// unchanged (credit lines).
func CoerceNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	for _, sym := range []string{"$", "€", "£"} {
		if strings.HasPrefix(s, sym) {
			s = strings.TrimSpace(s[len(sym):])
			break
		}
	}
	s = strings.ReplaceAll(s, ",", "")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
