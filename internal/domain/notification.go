package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotifyListingApproved = "listing_approved"
	NotifyListingRejected = "listing_rejected"
	NotifyKYCApproved     = "kyc_approved"
	NotifyKYCRejected     = "kyc_rejected"
	NotifyNewMessage      = "new_message"
)

type Notification struct {
	ID        uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Type      string     `gorm:"column:type;type:varchar(30);not null" json:"type"`
	Title     string     `gorm:"column:title;not null" json:"title"`
	Body      string     `gorm:"column:body" json:"body"`
	Reference string     `gorm:"column:reference" json:"reference,omitempty"`
	ReadAt    *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:createdAt" json:"createdAt"`
}

func (Notification) TableName() string {
	return "Notifications"
}
