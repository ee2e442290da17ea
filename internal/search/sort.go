package search

import (
	"cmp"
	"slices"

	"homescout-backend/internal/domain"
)

// SortListings returns a copy of listings ordered by s. Equal keys keep their input
// order. An unknown field leaves the order unchanged.
func SortListings(listings []domain.Listing, s domain.Sort) []domain.Listing {
	out := slices.Clone(listings)
	if out == nil {
		out = []domain.Listing{}
	}
	compare := comparator(s.Field)
	if compare == nil {
		return out
	}
	desc := s.Descending()
	slices.SortStableFunc(out, func(a, b domain.Listing) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

func comparator(f domain.SortField) func(a, b domain.Listing) int {
	switch f {
	case domain.SortFieldPopularity:
		return func(a, b domain.Listing) int { return cmp.Compare(a.Popularity(), b.Popularity()) }
	case domain.SortFieldPrice:
		return func(a, b domain.Listing) int { return cmp.Compare(ParsePrice(a.Price), ParsePrice(b.Price)) }
	case domain.SortFieldArea:
		return func(a, b domain.Listing) int { return cmp.Compare(parseArea(a.Area), parseArea(b.Area)) }
	case domain.SortFieldDate:
		return func(a, b domain.Listing) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
	return nil
}
