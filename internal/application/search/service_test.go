package search

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"homescout-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type staticCatalog struct {
	listings []domain.Listing
	err      error
}

func (c staticCatalog) Snapshot(ctx context.Context) ([]domain.Listing, error) {
	return c.listings, c.err
}

func fixtures() []domain.Listing {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Listing{
		{ID: 1, Title: "Sea Breeze Apartment", Location: "Bandra, Mumbai", Price: "2,50,00,000", Bedrooms: 3,
			MarketType: domain.MarketSell, PropertyType: domain.PropertyApartment,
			Latitude: 19.0596, Longitude: 72.8295, ViewCount: 40, CreatedAt: base},
		{ID: 2, Title: "Andheri Studio", Location: "Andheri, Mumbai", Price: "25,000", Bedrooms: 0,
			MarketType: domain.MarketRent, PropertyType: domain.PropertyStudio,
			Latitude: 19.1136, Longitude: 72.8697, ViewCount: 10, Parking: true, CreatedAt: base.Add(time.Hour)},
		{ID: 3, Title: "Koregaon Villa", Location: "Koregaon Park, Pune", Price: "4,00,00,000", Bedrooms: 6,
			MarketType: domain.MarketSell, PropertyType: domain.PropertyVilla,
			Latitude: 18.5362, Longitude: 73.8940, ViewCount: 90, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func setupSearch(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.SearchHistory{}))
	return &Service{DB: db, Catalog: staticCatalog{listings: fixtures()}}
}

func ids(listings []domain.Listing) []int64 {
	out := make([]int64, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func TestSearch_MarketTabNarrowsCandidates(t *testing.T) {
	s := setupSearch(t)
	res, err := s.Search(context.Background(), uuid.Nil, Request{MarketType: "buy"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(res.Listings))
	assert.False(t, res.HasActiveFilters)
}

func TestSearch_LocationUsesDefaultRadius(t *testing.T) {
	s := setupSearch(t)
	lat, lon := 19.0760, 72.8777
	res, err := s.Search(context.Background(), uuid.Nil, Request{Latitude: &lat, Longitude: &lon})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids(res.Listings))
	assert.Contains(t, res.Distances, int64(1))
	assert.NotContains(t, res.Distances, int64(3))
}

func TestSearch_InvalidCoordinatesSkipLocation(t *testing.T) {
	s := setupSearch(t)
	lat, lon := 123.0, 72.0
	res, err := s.Search(context.Background(), uuid.Nil, Request{Latitude: &lat, Longitude: &lon})
	require.NoError(t, err)
	assert.Len(t, res.Listings, 3)
	assert.Nil(t, res.Distances)
}

func TestSearch_UnknownEnumsAreIgnored(t *testing.T) {
	s := setupSearch(t)
	res, err := s.Search(context.Background(), uuid.Nil, Request{
		MarketType:    "lease",
		PropertyTypes: []string{"castle"},
		Furnishing:    "partly",
		Sort:          "random",
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(res.Listings))
}

func TestSearch_SortAndPaging(t *testing.T) {
	s := setupSearch(t)
	res, err := s.Search(context.Background(), uuid.Nil, Request{Sort: "popularity", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []int64{3, 1}, ids(res.Listings))

	res, err = s.Search(context.Background(), uuid.Nil, Request{Sort: "popularity", Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, res.Listings)
	assert.NotNil(t, res.Listings)
}

func TestSearch_EmptyResultMessage(t *testing.T) {
	s := setupSearch(t)
	res, err := s.Search(context.Background(), uuid.Nil, Request{Query: "penthouse in delhi"})
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Equal(t, "No properties match your search", res.Message)
}

func TestSearch_CatalogError(t *testing.T) {
	s := setupSearch(t)
	s.Catalog = staticCatalog{err: errors.New("redis down")}
	_, err := s.Search(context.Background(), uuid.New(), Request{Query: "villa"})
	assert.Error(t, err)
}

func TestHistory_RecordsNonBlankSearches(t *testing.T) {
	s := setupSearch(t)
	ctx := context.Background()
	user := uuid.New()

	_, err := s.Search(ctx, user, Request{Query: "   "})
	require.NoError(t, err)
	_, err = s.Search(ctx, uuid.Nil, Request{Query: "villa"})
	require.NoError(t, err)
	_, err = s.Search(ctx, user, Request{Query: "villa", Bedrooms: "6+"})
	require.NoError(t, err)

	history, err := s.History(ctx, user, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "villa", history[0].Query)
	assert.Equal(t, 1, history[0].ResultCount)
	assert.Contains(t, string(history[0].Criteria), `"bedrooms":"6+"`)

	n, err := s.ClearHistory(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	history, err = s.History(ctx, user, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRequestFromQuery(t *testing.T) {
	v := url.Values{}
	v.Set("query", "villa")
	v.Set("latitude", "18.5")
	v.Set("longitude", "abc")
	v.Set("min_price", "lots")
	v.Set("max_price", "5000")
	v.Set("parking", "true")
	v.Set("pets_allowed", "maybe")
	v.Set("property_types", "Villa, House,,")

	req := RequestFromQuery(v.Get)
	assert.Equal(t, "villa", req.Query)
	require.NotNil(t, req.Latitude)
	assert.Equal(t, 18.5, *req.Latitude)
	assert.Nil(t, req.Longitude)
	assert.Equal(t, int64(0), req.MinPrice)
	assert.Equal(t, int64(5000), req.MaxPrice)
	require.NotNil(t, req.Parking)
	assert.True(t, *req.Parking)
	assert.Nil(t, req.PetsAllowed)
	assert.Equal(t, []string{"Villa", "House"}, req.PropertyTypes)
}
