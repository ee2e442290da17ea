// Package search is the in-memory property search pipeline: text or location
// match, structured filters, then sort. It performs no I/O and never fails;
// unreadable input degrades to a skipped stage or a zero value.
package search

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"homescout-backend/internal/domain"
)

// NoResultsMessage accompanies an empty result.
const NoResultsMessage = "No properties match your search"

// Query holds the optional inputs of one search. Nil or blank fields skip their stage.
type Query struct {
	Text     string
	Location *domain.LocationQuery
	Filter   *domain.FilterCriteria
	Sort     *domain.Sort
}

// Result is the ordered output of Run. Empty is set when the search ran and
// nothing matched; Distances holds km from the query point for location searches.
type Result struct {
	Listings  []domain.Listing
	Empty     bool
	Message   string
	Distances map[int64]float64
}

// Run applies the stages of q to candidates. A location replaces the text match
// rather than narrowing it; location results come back nearest first unless q.Sort
// asks for something else.
func Run(candidates []domain.Listing, q Query) Result {
	res := Result{}
	current := slices.Clone(candidates)

	if text := strings.TrimSpace(q.Text); text != "" {
		current = matchText(current, text)
	}
	if q.Location != nil {
		current, res.Distances = withinRadius(candidates, *q.Location)
	}
	if q.Filter != nil && HasActiveFilters(*q.Filter) {
		current = ApplyFilters(*q.Filter, current)
	}
	if q.Sort != nil && q.Sort.Field != "" {
		current = SortListings(current, *q.Sort)
	}

	if current == nil {
		current = []domain.Listing{}
	}
	res.Listings = current
	if len(current) == 0 {
		res.Empty = true
		res.Message = NoResultsMessage
	}
	return res
}

func matchText(listings []domain.Listing, q string) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if MatchesQuery(l, q) {
			out = append(out, l)
		}
	}
	return out
}

type located struct {
	listing domain.Listing
	km      float64
}

// withinRadius keeps listings at most RadiusKm away, nearest first. Ties keep
// input order.
func withinRadius(listings []domain.Listing, loc domain.LocationQuery) ([]domain.Listing, map[int64]float64) {
	radius := math.Max(0, loc.RadiusKm)
	var hits []located
	for _, l := range listings {
		d := Distance(loc.Latitude, loc.Longitude, l.Latitude, l.Longitude)
		if d <= radius {
			hits = append(hits, located{listing: l, km: d})
		}
	}
	slices.SortStableFunc(hits, func(a, b located) int { return cmp.Compare(a.km, b.km) })

	out := make([]domain.Listing, 0, len(hits))
	dist := make(map[int64]float64, len(hits))
	for _, h := range hits {
		out = append(out, h.listing)
		dist[h.listing.ID] = h.km
	}
	return out, dist
}
