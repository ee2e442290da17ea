package domain

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is a listing saved by a user.
type Favorite struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	ListingID int64     `gorm:"column:listing_id;primaryKey" json:"listing_id"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Favorite) TableName() string {
	return "Favorites"
}
