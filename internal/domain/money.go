package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Monetary amounts are integer cents end to end; decimals only exist at the
// normalization boundary (parsing) and the display boundary (formatting).

// CentsFromDecimal converts a decimal amount (e.g. 19.99) to cents,
// rounding half away from zero.
func CentsFromDecimal(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ParseCents parses a decimal string such as "19.99" or "1299" into cents.
func ParseCents(s string) (int64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return CentsFromDecimal(v), nil
}

// FormatCents renders cents with two decimal digits, e.g. 1050 -> "10.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// DecimalFromCents converts cents back to a float amount for display payloads.
func DecimalFromCents(cents int64) float64 {
	return float64(cents) / 100
}
