package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the thread between a prospective buyer/tenant and a listing owner.
type Conversation struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ListingID     int64     `gorm:"column:listing_id;not null;uniqueIndex:idx_conversation_participants" json:"listing_id"`
	BuyerID       uuid.UUID `gorm:"column:buyer_id;type:uuid;not null;uniqueIndex:idx_conversation_participants" json:"buyer_id"`
	OwnerID       uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	ListingTitle  string    `gorm:"column:listing_title" json:"listing_title"`
	LastMessageAt time.Time `gorm:"column:last_message_at" json:"last_message_at"`
	CreatedAt     time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Conversation) TableName() string {
	return "Conversations"
}

// Participant reports whether user belongs to the conversation.
func (c Conversation) Participant(user uuid.UUID) bool {
	return user == c.BuyerID || user == c.OwnerID
}

// Counterpart returns the other participant.
func (c Conversation) Counterpart(user uuid.UUID) uuid.UUID {
	if user == c.BuyerID {
		return c.OwnerID
	}
	return c.BuyerID
}

type Message struct {
	ID             uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ConversationID uint       `gorm:"column:conversation_id;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID  `gorm:"column:sender_id;type:uuid;not null" json:"sender_id"`
	Body           string     `gorm:"column:body;not null" json:"body"`
	ReadAt         *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:createdAt" json:"createdAt"`
}

func (Message) TableName() string {
	return "Messages"
}
