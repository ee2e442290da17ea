package search

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	cases := map[string]int64{
		"Rs 1,20,000/month": 120000,
		"₹ 45,00,000":       4500000,
		"120000":            120000,
		"1.2 Cr":            12,
		"":                  0,
		"Price on request":  0,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParsePrice(in), in)
	}
	assert.Equal(t, int64(0), ParsePrice("99999999999999999999999"), "overflow")
}

func TestParsePrice_Idempotent(t *testing.T) {
	for _, in := range []string{"Rs 500,000", "$ 1,234", "0", "no digits", "007"} {
		p := ParsePrice(in)
		assert.Equal(t, p, ParsePrice(strconv.FormatInt(p, 10)), in)
	}
}

func TestParseArea(t *testing.T) {
	assert.Equal(t, 1250.0, parseArea("1,250 sq ft"))
	assert.Equal(t, 980.5, parseArea(" 980.5sqft"))
	assert.Equal(t, 0.0, parseArea("approx 900"))
	assert.Equal(t, 0.0, parseArea(""))
}
