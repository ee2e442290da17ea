package search

import (
	"strconv"
	"strings"
)

// RequestFromQuery builds a Request from URL query values. Malformed numbers
// read as zero and malformed booleans as unset; lists are comma separated.
func RequestFromQuery(get func(key string) string) Request {
	return Request{
		Query:         get("query"),
		MarketType:    get("market_type"),
		Latitude:      optionalFloat(get("latitude")),
		Longitude:     optionalFloat(get("longitude")),
		Address:       get("address"),
		RadiusKm:      floatOrZero(get("radius_km")),
		PropertyTypes: splitList(get("property_types")),
		MinPrice:      intOrZero(get("min_price")),
		MaxPrice:      intOrZero(get("max_price")),
		Bedrooms:      get("bedrooms"),
		Furnishing:    get("furnishing"),
		Parking:       optionalBool(get("parking")),
		PetsAllowed:   optionalBool(get("pets_allowed")),
		Amenities:     splitList(get("amenities")),
		Floor:         get("floor"),
		Sort:          get("sort"),
		Limit:         int(intOrZero(get("limit"))),
		Offset:        int(intOrZero(get("offset"))),
	}
}

func optionalFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

func floatOrZero(s string) float64 {
	if f := optionalFloat(s); f != nil {
		return *f
	}
	return 0
}

func intOrZero(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func optionalBool(s string) *bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
