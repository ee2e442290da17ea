package search

import (
	"strconv"
	"strings"
)

// ParsePrice reads the digits out of a free-form price such as "Rs 1,20,000/month".
// Units ("Lakh", "Cr") are not interpreted; the digits are concatenated. Returns 0
// when there are no digits or the number does not fit in an int64.
func ParsePrice(s string) int64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseArea returns the leading number of an area string ("1,250 sq ft" -> 1250).
func parseArea(s string) float64 {
	s = strings.TrimSpace(s)
	var b strings.Builder
	dot := false
scan:
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',':
		case r == '.' && !dot:
			dot = true
			b.WriteRune(r)
		default:
			break scan
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(b.String(), "."), 64)
	if err != nil {
		return 0
	}
	return f
}
