package search

import (
	"strings"

	"homescout-backend/internal/domain"
)

// MatchesQuery reports whether q appears, case-insensitively, in the listing's
// title, location, developer, property type, market type label or description.
// An empty query matches every listing.
func MatchesQuery(l domain.Listing, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	fields := []string{
		l.Title,
		l.Location,
		l.Developer,
		string(l.PropertyType),
		l.MarketType.DisplayName(),
	}
	if l.Description != nil {
		fields = append(fields, *l.Description)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
