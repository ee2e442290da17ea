package domain

import (
	"time"

	"github.com/google/uuid"
)

// KYC document types accepted for identity verification.
const (
	DocAadhaar        = "aadhaar"
	DocPAN            = "pan"
	DocPassport       = "passport"
	DocDrivingLicense = "driving_license"
)

// KYCSubmission is one identity verification request. A user has at most one
// Pending or Approved submission at a time.
type KYCSubmission struct {
	ID               uint             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID           uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	FullName         string           `gorm:"column:full_name;not null" json:"full_name"`
	DateOfBirth      time.Time        `gorm:"column:date_of_birth;not null" json:"date_of_birth"`
	Phone            string           `gorm:"column:phone;not null" json:"phone"`
	Address          string           `gorm:"column:address;not null" json:"address"`
	DocumentType     string           `gorm:"column:document_type;type:varchar(20);not null" json:"document_type"`
	DocumentNumber   string           `gorm:"column:document_number;not null" json:"document_number"`
	DocumentFrontURL string           `gorm:"column:document_front_url;not null" json:"document_front_url"`
	DocumentBackURL  *string          `gorm:"column:document_back_url" json:"document_back_url,omitempty"`
	SelfieURL        string           `gorm:"column:selfie_url;not null" json:"selfie_url"`
	Status           ModerationStatus `gorm:"column:status;type:varchar(10);not null;default:'Pending';index" json:"status"`
	RejectionReason  *string          `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	ReviewedBy       *uuid.UUID       `gorm:"column:reviewed_by;type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time       `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt        time.Time        `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt        time.Time        `gorm:"column:updatedAt" json:"updatedAt"`
}

func (KYCSubmission) TableName() string {
	return "KYCSubmissions"
}
