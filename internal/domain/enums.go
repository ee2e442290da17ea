package domain

import "strings"

// MarketType is the search tab a listing appears under.
type MarketType string

const (
	MarketSell MarketType = "Sell"
	MarketRent MarketType = "Rent"
	MarketBook MarketType = "Book"
)

var marketTypes = []MarketType{MarketSell, MarketRent, MarketBook}

// ParseMarketType accepts any casing of Sell/Rent/Book. "Buy" is the user-facing
// name of Sell and parses to MarketSell.
func ParseMarketType(s string) (MarketType, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "buy") {
		return MarketSell, true
	}
	for _, m := range marketTypes {
		if strings.EqualFold(s, string(m)) {
			return m, true
		}
	}
	return "", false
}

// DisplayName is the label shown to users. Sell listings are shown under "Buy".
func (m MarketType) DisplayName() string {
	if m == MarketSell {
		return "Buy"
	}
	return string(m)
}

// PropertyType classifies the building or land being listed.
type PropertyType string

const (
	PropertyApartment  PropertyType = "Apartment"
	PropertyHouse      PropertyType = "House"
	PropertyVilla      PropertyType = "Villa"
	PropertyStudio     PropertyType = "Studio"
	PropertyPenthouse  PropertyType = "Penthouse"
	PropertyPlot       PropertyType = "Plot"
	PropertyFarmhouse  PropertyType = "Farmhouse"
	PropertyCommercial PropertyType = "Commercial"
	PropertyOffice     PropertyType = "Office"
	PropertyShop       PropertyType = "Shop"
)

var propertyTypes = []PropertyType{
	PropertyApartment, PropertyHouse, PropertyVilla, PropertyStudio, PropertyPenthouse,
	PropertyPlot, PropertyFarmhouse, PropertyCommercial, PropertyOffice, PropertyShop,
}

// PropertyTypes returns every known property type in display order.
func PropertyTypes() []PropertyType {
	out := make([]PropertyType, len(propertyTypes))
	copy(out, propertyTypes)
	return out
}

func ParsePropertyType(s string) (PropertyType, bool) {
	s = strings.TrimSpace(s)
	for _, p := range propertyTypes {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}

// Furnishing describes what comes with the property.
type Furnishing string

const (
	Furnished     Furnishing = "Furnished"
	SemiFurnished Furnishing = "Semi-Furnished"
	Unfurnished   Furnishing = "Unfurnished"
)

// ParseFurnishing is lenient about the separator in "Semi-Furnished".
func ParseFurnishing(s string) (Furnishing, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("-", "", " ", "", "_", "").Replace(k)
	switch k {
	case "furnished":
		return Furnished, true
	case "semifurnished":
		return SemiFurnished, true
	case "unfurnished":
		return Unfurnished, true
	}
	return "", false
}

// ModerationStatus is the review stage of a listing or a KYC submission.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "Pending"
	StatusApproved ModerationStatus = "Approved"
	StatusRejected ModerationStatus = "Rejected"
)

func ParseModerationStatus(s string) (ModerationStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range []ModerationStatus{StatusPending, StatusApproved, StatusRejected} {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}
