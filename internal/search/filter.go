package search

import (
	"strconv"
	"strings"

	"homescout-backend/internal/domain"
)

type predicate func(domain.Listing) bool

// predicates builds one predicate per non-default criterion, in evaluation order.
func predicates(c domain.FilterCriteria) []predicate {
	var ps []predicate

	if c.MarketType != "" {
		ps = append(ps, func(l domain.Listing) bool {
			return strings.EqualFold(string(l.MarketType), string(c.MarketType))
		})
	}
	if len(c.PropertyTypes) > 0 {
		ps = append(ps, func(l domain.Listing) bool {
			for _, t := range c.PropertyTypes {
				if strings.EqualFold(string(l.PropertyType), string(t)) {
					return true
				}
			}
			return false
		})
	}
	if c.MinPrice != 0 || c.MaxPrice != 0 {
		minP, maxP := c.MinPrice*1000, c.MaxPrice*1000
		ps = append(ps, func(l domain.Listing) bool {
			p := ParsePrice(l.Price)
			if p < minP {
				return false
			}
			return c.MaxPrice <= 0 || p <= maxP
		})
	}
	if p := bedroomPredicate(c.Bedrooms); p != nil {
		ps = append(ps, p)
	}
	if c.Furnishing != "" {
		ps = append(ps, func(l domain.Listing) bool {
			return strings.EqualFold(string(l.Furnishing), string(c.Furnishing))
		})
	}
	if c.Parking != nil {
		want := *c.Parking
		ps = append(ps, func(l domain.Listing) bool { return l.Parking == want })
	}
	if c.PetsAllowed != nil {
		want := *c.PetsAllowed
		ps = append(ps, func(l domain.Listing) bool { return l.PetsAllowed == want })
	}
	if len(c.Amenities) > 0 {
		ps = append(ps, func(l domain.Listing) bool {
			have := make(map[string]struct{}, len(l.Amenities))
			for _, a := range l.Amenities {
				have[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
			}
			for _, a := range c.Amenities {
				if _, ok := have[strings.ToLower(strings.TrimSpace(a))]; !ok {
					return false
				}
			}
			return true
		})
	}
	if strings.TrimSpace(c.Floor) != "" {
		floor := strings.TrimSpace(c.Floor)
		ps = append(ps, func(l domain.Listing) bool {
			return strings.EqualFold(strings.TrimSpace(l.Floor), floor)
		})
	}
	return ps
}

// bedroomPredicate returns nil for a blank or unreadable bucket.
func bedroomPredicate(bucket string) predicate {
	bucket = strings.TrimSpace(bucket)
	switch {
	case bucket == "":
		return nil
	case strings.EqualFold(bucket, domain.BedroomsStudio):
		return func(l domain.Listing) bool { return l.Bedrooms == 0 }
	case bucket == domain.BedroomsSixPlus:
		return func(l domain.Listing) bool { return l.Bedrooms >= 6 }
	}
	n, err := strconv.Atoi(bucket)
	if err != nil {
		return nil
	}
	return func(l domain.Listing) bool { return l.Bedrooms == n }
}

// ApplyFilters keeps the listings that satisfy every set criterion. The input is
// never modified; the result is a new slice in input order.
func ApplyFilters(c domain.FilterCriteria, listings []domain.Listing) []domain.Listing {
	ps := predicates(c)
	out := make([]domain.Listing, 0, len(listings))
next:
	for _, l := range listings {
		for _, p := range ps {
			if !p(l) {
				continue next
			}
		}
		out = append(out, l)
	}
	return out
}

// HasActiveFilters reports whether any refinement is set. Market type is the base
// view toggle and does not count.
func HasActiveFilters(c domain.FilterCriteria) bool {
	return len(c.PropertyTypes) > 0 ||
		c.MinPrice != 0 || c.MaxPrice != 0 ||
		strings.TrimSpace(c.Bedrooms) != "" ||
		c.Furnishing != "" ||
		c.Parking != nil ||
		c.PetsAllowed != nil ||
		len(c.Amenities) > 0 ||
		strings.TrimSpace(c.Floor) != ""
}
