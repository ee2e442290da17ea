package listings

import "errors"

var (
	ErrTitleRequired       = errors.New("Title is required")
	ErrPriceRequired       = errors.New("Price is required")
	ErrLocationRequired    = errors.New("Location is required")
	ErrInvalidMarketType   = errors.New("Market type must be one of Sell, Rent or Book")
	ErrInvalidPropertyType = errors.New("Invalid property type")
	ErrInvalidFurnishing   = errors.New("Furnishing must be Furnished, Semi-Furnished or Unfurnished")
	ErrInvalidCoordinates  = errors.New("Latitude must be within ±90 and longitude within ±180")
	ErrInvalidRooms        = errors.New("Bedrooms and bathrooms cannot be negative")
	ErrInvalidImageURL     = errors.New("Image URLs must be absolute http(s) URLs")
	ErrListingNotFound     = errors.New("Listing not found")
	ErrNotOwner            = errors.New("Only the owner can modify this listing")
	ErrOwnerNotFound       = errors.New("Owner account not found")
)
