package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FilterCriteria is the user's refinement selection. Zero values mean "not set";
// Parking and PetsAllowed are tri-state (nil = any).
type FilterCriteria struct {
	MarketType    MarketType     `json:"market_type,omitempty"`
	PropertyTypes []PropertyType `json:"property_types,omitempty"`
	// MinPrice and MaxPrice are in thousands. MaxPrice 0 means unbounded.
	MinPrice    int64      `json:"min_price,omitempty"`
	MaxPrice    int64      `json:"max_price,omitempty"`
	Bedrooms    string     `json:"bedrooms,omitempty"`
	Furnishing  Furnishing `json:"furnishing,omitempty"`
	Parking     *bool      `json:"parking,omitempty"`
	PetsAllowed *bool      `json:"pets_allowed,omitempty"`
	Amenities   []string   `json:"amenities,omitempty"`
	Floor       string     `json:"floor,omitempty"`
}

// Bedroom buckets with special meaning; any other value is an exact count.
const (
	BedroomsStudio  = "Studio"
	BedroomsSixPlus = "6+"
)

// LocationQuery is a point-and-radius search. It lives for one search call.
type LocationQuery struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	RadiusKm  float64 `json:"radius_km"`
}

type SortField string

const (
	SortFieldPopularity SortField = "popularity"
	SortFieldPrice      SortField = "price"
	SortFieldArea       SortField = "area"
	SortFieldDate       SortField = "date"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort orders search results. An empty Direction means the field's natural
// direction: popularity descending, everything else ascending.
type Sort struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction,omitempty"`
}

// Descending resolves the effective direction.
func (s Sort) Descending() bool {
	switch s.Direction {
	case SortDesc:
		return true
	case SortAsc:
		return false
	}
	return s.Field == SortFieldPopularity
}

// SortKey is the named sort option offered by the app.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortAreaAsc    SortKey = "area_asc"
	SortAreaDesc   SortKey = "area_desc"
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
)

var sortKeys = map[SortKey]Sort{
	SortPopularity: {Field: SortFieldPopularity, Direction: SortDesc},
	SortPriceAsc:   {Field: SortFieldPrice, Direction: SortAsc},
	SortPriceDesc:  {Field: SortFieldPrice, Direction: SortDesc},
	SortAreaAsc:    {Field: SortFieldArea, Direction: SortAsc},
	SortAreaDesc:   {Field: SortFieldArea, Direction: SortDesc},
	SortNewest:     {Field: SortFieldDate, Direction: SortDesc},
	SortOldest:     {Field: SortFieldDate, Direction: SortAsc},
}

var sortKeyAliases = map[string]SortKey{
	"popular":             SortPopularity,
	"price_low_to_high":   SortPriceAsc,
	"price_high_to_low":   SortPriceDesc,
	"area_small_to_large": SortAreaAsc,
	"area_large_to_small": SortAreaDesc,
	"latest":              SortNewest,
}

// ParseSortKey accepts the canonical keys and the app's older labels.
func ParseSortKey(s string) (SortKey, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("-", "_", " ", "_").Replace(k)
	if _, ok := sortKeys[SortKey(k)]; ok {
		return SortKey(k), true
	}
	if alias, ok := sortKeyAliases[k]; ok {
		return alias, true
	}
	return "", false
}

// Sort returns the field and direction behind the key.
func (k SortKey) Sort() (Sort, bool) {
	s, ok := sortKeys[k]
	return s, ok
}

// SearchHistory is an audit entry of one search: its shape and result count,
// never the listings themselves.
type SearchHistory struct {
	ID          uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Query       string         `gorm:"column:query" json:"query"`
	Address     string         `gorm:"column:address" json:"address,omitempty"`
	Latitude    *float64       `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude   *float64       `gorm:"column:longitude" json:"longitude,omitempty"`
	RadiusKm    *float64       `gorm:"column:radius_km" json:"radius_km,omitempty"`
	Criteria    datatypes.JSON `gorm:"column:criteria" json:"criteria"`
	SortKey     string         `gorm:"column:sort_key" json:"sort_key,omitempty"`
	ResultCount int            `gorm:"column:result_count;not null" json:"result_count"`
	CreatedAt   time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (SearchHistory) TableName() string {
	return "SearchHistory"
}
