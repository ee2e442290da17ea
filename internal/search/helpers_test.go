package search

import (
	"time"

	"homescout-backend/internal/domain"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func listing(id int64, mutate ...func(*domain.Listing)) domain.Listing {
	l := domain.Listing{
		ID:           id,
		Title:        "Listing",
		Price:        "Rs 100,000",
		MarketType:   domain.MarketSell,
		PropertyType: domain.PropertyApartment,
		Status:       domain.StatusApproved,
		CreatedAt:    epoch.Add(time.Duration(id) * time.Hour),
	}
	for _, m := range mutate {
		m(&l)
	}
	return l
}

func ids(ls []domain.Listing) []int64 {
	out := make([]int64, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
