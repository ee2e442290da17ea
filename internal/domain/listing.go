package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ImageSet groups listing photo URLs by category ("exterior", "bedroom", ...).
type ImageSet = datatypes.JSONType[map[string][]string]

// Listing is a property shown in the marketplace. The id is stable across fetches;
// only Approved listings are visible to users other than the owner.
type Listing struct {
	ID              int64                       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title           string                      `gorm:"column:title;not null" json:"title"`
	Developer       string                      `gorm:"column:developer" json:"developer"`
	Price           string                      `gorm:"column:price;not null" json:"price"`
	Area            string                      `gorm:"column:area" json:"area"`
	Bedrooms        int                         `gorm:"column:bedrooms;not null;default:0" json:"bedrooms"`
	Bathrooms       int                         `gorm:"column:bathrooms;not null;default:0" json:"bathrooms"`
	Images          ImageSet                    `gorm:"column:images" json:"images"`
	Location        string                      `gorm:"column:location;not null" json:"location"`
	MarketType      MarketType                  `gorm:"column:market_type;type:varchar(10);not null;index" json:"market_type"`
	Latitude        float64                     `gorm:"column:latitude" json:"latitude"`
	Longitude       float64                     `gorm:"column:longitude" json:"longitude"`
	PropertyType    PropertyType                `gorm:"column:property_type;type:varchar(20);not null" json:"property_type"`
	Floor           string                      `gorm:"column:floor" json:"floor"`
	Furnishing      Furnishing                  `gorm:"column:furnishing;type:varchar(20)" json:"furnishing"`
	Parking         bool                        `gorm:"column:parking" json:"parking"`
	PetsAllowed     bool                        `gorm:"column:pets_allowed" json:"pets_allowed"`
	OwnerID         uuid.UUID                   `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	OwnerName       string                      `gorm:"column:owner_name" json:"owner_name"`
	OwnerPhone      string                      `gorm:"column:owner_phone" json:"owner_phone"`
	Status          ModerationStatus            `gorm:"column:status;type:varchar(10);not null;default:'Pending';index" json:"status"`
	RejectionReason *string                     `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	Amenities       datatypes.JSONSlice[string] `gorm:"column:amenities" json:"amenities"`
	ViewCount       int64                       `gorm:"column:view_count;not null;default:0" json:"view_count"`
	UniqueViewCount int64                       `gorm:"column:unique_view_count;not null;default:0" json:"unique_view_count"`
	FavoriteCount   int64                       `gorm:"column:favorite_count;not null;default:0" json:"favorite_count"`
	Description     *string                     `gorm:"column:description" json:"description,omitempty"`
	CreatedAt       time.Time                   `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt       time.Time                   `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Listing) TableName() string {
	return "Listings"
}

// Popularity ranks listings for the "popular" sort. A save counts for more than a view.
func (l Listing) Popularity() int64 {
	return l.ViewCount + 3*l.FavoriteCount
}

// VisibleTo reports whether viewer may see the listing: owners see every status,
// everyone else only Approved.
func (l Listing) VisibleTo(viewer uuid.UUID) bool {
	return l.Status == StatusApproved || (viewer != uuid.Nil && viewer == l.OwnerID)
}

// ListingView records that a user has opened a listing; used for unique view counts.
type ListingView struct {
	ListingID int64     `gorm:"column:listing_id;primaryKey" json:"listing_id"`
	ViewerID  uuid.UUID `gorm:"column:viewer_id;type:uuid;primaryKey" json:"viewer_id"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (ListingView) TableName() string {
	return "ListingViews"
}

// ListingEvent is the audit trail of listing lifecycle changes.
type ListingEvent struct {
	EventID   uint           `gorm:"column:event_id;primaryKey;autoIncrement" json:"event_id"`
	ListingID int64          `gorm:"column:listing_id;not null;index" json:"listing_id"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	ActorID   *uuid.UUID     `gorm:"column:actor_id;type:uuid" json:"actor_id"`
	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (ListingEvent) TableName() string {
	return "ListingEvents"
}

const (
	EventCreated     = "CREATED"
	EventUpdated     = "UPDATED"
	EventApproved    = "APPROVED"
	EventRejected    = "REJECTED"
	EventWithdrawn   = "WITHDRAWN"
	EventDeleted     = "DELETED"
	EventResubmitted = "RESUBMITTED"
)
