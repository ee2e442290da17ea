package search

import (
	"testing"

	"homescout-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestHasActiveFilters_Defaults(t *testing.T) {
	assert.False(t, HasActiveFilters(domain.FilterCriteria{}))
	assert.False(t, HasActiveFilters(domain.FilterCriteria{MarketType: domain.MarketRent}))
}

func TestHasActiveFilters_EachCriterion(t *testing.T) {
	active := []domain.FilterCriteria{
		{PropertyTypes: []domain.PropertyType{domain.PropertyHouse}},
		{MinPrice: 10},
		{MaxPrice: 10},
		{Bedrooms: "2"},
		{Furnishing: domain.Furnished},
		{Parking: ptr(false)},
		{PetsAllowed: ptr(false)},
		{Amenities: []string{"Gym"}},
		{Floor: "Ground"},
	}
	for i, c := range active {
		assert.True(t, HasActiveFilters(c), "criterion %d", i)
	}
}

func TestApplyFilters_DefaultIsNoOp(t *testing.T) {
	in := []domain.Listing{listing(3), listing(1), listing(2)}
	out := ApplyFilters(domain.FilterCriteria{}, in)
	assert.Equal(t, in, out)
}

func TestApplyFilters_PriceScenario(t *testing.T) {
	in := []domain.Listing{
		listing(1, func(l *domain.Listing) { l.Price = "Rs 500,000" }),
		listing(2, func(l *domain.Listing) { l.Price = "Rs 1,200,000" }),
		listing(3, func(l *domain.Listing) { l.Price = "Rs 800,000" }),
	}
	out := ApplyFilters(domain.FilterCriteria{MinPrice: 600}, in)
	assert.Equal(t, []int64{2, 3}, ids(out))

	out = ApplyFilters(domain.FilterCriteria{MinPrice: 600, MaxPrice: 800}, in)
	assert.Equal(t, []int64{3}, ids(out))

	out = ApplyFilters(domain.FilterCriteria{MaxPrice: 500}, in)
	assert.Equal(t, []int64{1}, ids(out))
}

func TestApplyFilters_Bedrooms(t *testing.T) {
	in := []domain.Listing{
		listing(1, func(l *domain.Listing) { l.Bedrooms = 3 }),
		listing(2, func(l *domain.Listing) { l.Bedrooms = 6 }),
		listing(3, func(l *domain.Listing) { l.Bedrooms = 9 }),
		listing(4, func(l *domain.Listing) { l.Bedrooms = 0 }),
	}
	assert.Equal(t, []int64{2, 3}, ids(ApplyFilters(domain.FilterCriteria{Bedrooms: "6+"}, in)))
	assert.Equal(t, []int64{4}, ids(ApplyFilters(domain.FilterCriteria{Bedrooms: "Studio"}, in)))
	assert.Equal(t, []int64{1}, ids(ApplyFilters(domain.FilterCriteria{Bedrooms: "3"}, in)))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(ApplyFilters(domain.FilterCriteria{Bedrooms: "many"}, in)))
}

func TestApplyFilters_PropertyTypesOr(t *testing.T) {
	in := []domain.Listing{
		listing(1, func(l *domain.Listing) { l.PropertyType = domain.PropertyVilla }),
		listing(2, func(l *domain.Listing) { l.PropertyType = domain.PropertyHouse }),
		listing(3, func(l *domain.Listing) { l.PropertyType = domain.PropertyPlot }),
	}
	c := domain.FilterCriteria{PropertyTypes: []domain.PropertyType{domain.PropertyHouse, domain.PropertyVilla}}
	assert.Equal(t, []int64{1, 2}, ids(ApplyFilters(c, in)))
}

func TestApplyFilters_TriState(t *testing.T) {
	in := []domain.Listing{
		listing(1, func(l *domain.Listing) { l.Parking = true }),
		listing(2, func(l *domain.Listing) { l.PetsAllowed = true }),
	}
	assert.Equal(t, []int64{2}, ids(ApplyFilters(domain.FilterCriteria{Parking: ptr(false)}, in)))
	assert.Equal(t, []int64{1}, ids(ApplyFilters(domain.FilterCriteria{PetsAllowed: ptr(false)}, in)))
	assert.Equal(t, []int64{2}, ids(ApplyFilters(domain.FilterCriteria{PetsAllowed: ptr(true)}, in)))
}

func TestApplyFilters_AmenitiesAll(t *testing.T) {
	in := []domain.Listing{
		listing(1, func(l *domain.Listing) { l.Amenities = []string{"Gym", "Pool", "Lift"} }),
		listing(2, func(l *domain.Listing) { l.Amenities = []string{"gym"} }),
		listing(3),
	}
	c := domain.FilterCriteria{Amenities: []string{"GYM", "pool"}}
	assert.Equal(t, []int64{1}, ids(ApplyFilters(c, in)))
}

func TestApplyFilters_TextFieldsCaseInsensitive(t *testing.T) {
	in := []domain.Listing{
		listing(1, func(l *domain.Listing) {
			l.Furnishing = domain.SemiFurnished
			l.Floor = "Ground"
			l.MarketType = domain.MarketRent
		}),
		listing(2, func(l *domain.Listing) { l.Furnishing = domain.Furnished }),
	}
	c := domain.FilterCriteria{Furnishing: "semi-furnished", Floor: "ground", MarketType: "rent"}
	assert.Equal(t, []int64{1}, ids(ApplyFilters(c, in)))
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	in := []domain.Listing{listing(1, func(l *domain.Listing) { l.Bedrooms = 2 }), listing(2)}
	_ = ApplyFilters(domain.FilterCriteria{Bedrooms: "2"}, in)
	assert.Equal(t, []int64{1, 2}, ids(in))
}
