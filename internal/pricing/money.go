package pricing

import (
	"math"
	"strconv"
	"strings"
)

// CentsTolerance is the absolute distance (in centavos) within which two
// prices are considered tied for the lowest-price mark. It absorbs rounding
// introduced by currency parsing.
const CentsTolerance = 1

// ParseBRLCents normalizes a Brazilian-formatted price string to integer
// centavos. It strips the currency symbol, whitespace, and thousands
// separators and converts the decimal comma to a decimal point, so both
// "R$ 1.234,56" and "1234.56" yield 123456.
//
// The second return value is false when the string does not contain a
// non-negative number after stripping; callers treat such prices as zero and
// exclude them from minimum computation.
func ParseBRLCents(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "r$")
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == ' ' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ",") {
		// Brazilian locale: dots are thousands separators, comma is decimal.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}

	return int64(math.Round(v * 100)), true
}

// CentsToFloat converts centavos to a decimal monetary amount for the JSON
// boundary. Arithmetic inside the engine stays on integers.
func CentsToFloat(cents int64) float64 {
	return float64(cents) / 100
}

// FloatToCents converts a decimal monetary amount to centavos, rounding to
// the nearest centavo.
func FloatToCents(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int64(math.Round(v * 100))
}
