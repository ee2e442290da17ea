package messages

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"homescout-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxBodyLength = 2000

var (
	ErrEmptyBody            = errors.New("Message cannot be empty")
	ErrBodyTooLong          = errors.New("Message is too long")
	ErrListingNotFound      = errors.New("Listing not found")
	ErrOwnListing           = errors.New("You cannot message yourself about your own listing")
	ErrConversationNotFound = errors.New("Conversation not found")
)

// Notifier delivers a notification to a user.
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

type Service struct {
	DB       *gorm.DB
	Notifier Notifier // optional
}

func cleanBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyBody
	}
	if utf8.RuneCountInString(body) > maxBodyLength {
		return "", ErrBodyTooLong
	}
	return body, nil
}

// Send opens (or reuses) the sender's conversation with the owner of an Approved
// listing and appends the message.
func (s *Service) Send(ctx context.Context, senderID uuid.UUID, listingID int64, body string) (*domain.Conversation, *domain.Message, error) {
	body, err := cleanBody(body)
	if err != nil {
		return nil, nil, err
	}
	var (
		conv   domain.Conversation
		msg    domain.Message
		notify bool
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l domain.Listing
		if err := tx.Select("id", "title", "owner_id", "status").Where("id = ?", listingID).First(&l).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return err
		}
		if l.OwnerID == senderID {
			return ErrOwnListing
		}
		if l.Status != domain.StatusApproved {
			return ErrListingNotFound
		}

		conv = domain.Conversation{ListingID: l.ID, BuyerID: senderID, OwnerID: l.OwnerID, ListingTitle: l.Title}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&conv).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ? AND buyer_id = ?", l.ID, senderID).First(&conv).Error; err != nil {
			return err
		}
		var e error
		notify, e = appendMessage(tx, &conv, senderID, body, &msg)
		return e
	})
	if err != nil {
		return nil, nil, err
	}
	if notify {
		s.notify(ctx, &conv, senderID, body)
	}
	return &conv, &msg, nil
}

// Reply appends a message to an existing conversation the sender belongs to.
func (s *Service) Reply(ctx context.Context, senderID uuid.UUID, conversationID uint, body string) (*domain.Message, error) {
	body, err := cleanBody(body)
	if err != nil {
		return nil, err
	}
	var (
		conv   domain.Conversation
		msg    domain.Message
		notify bool
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findConversation(tx, senderID, conversationID, &conv); err != nil {
			return err
		}
		var e error
		notify, e = appendMessage(tx, &conv, senderID, body, &msg)
		return e
	})
	if err != nil {
		return nil, err
	}
	if notify {
		s.notify(ctx, &conv, senderID, body)
	}
	return &msg, nil
}

// appendMessage stores the message and reports whether the recipient had no
// unread messages before it.
func appendMessage(tx *gorm.DB, conv *domain.Conversation, senderID uuid.UUID, body string, msg *domain.Message) (bool, error) {
	var unread int64
	if err := tx.Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id = ? AND read_at IS NULL", conv.ID, senderID).
		Count(&unread).Error; err != nil {
		return false, err
	}
	*msg = domain.Message{ConversationID: conv.ID, SenderID: senderID, Body: body}
	if err := tx.Create(msg).Error; err != nil {
		return false, err
	}
	conv.LastMessageAt = msg.CreatedAt
	if err := tx.Model(conv).Update("last_message_at", msg.CreatedAt).Error; err != nil {
		return false, err
	}
	return unread == 0, nil
}

func findConversation(db *gorm.DB, userID uuid.UUID, id uint, conv *domain.Conversation) error {
	if err := db.Where("id = ?", id).First(conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConversationNotFound
		}
		return err
	}
	if !conv.Participant(userID) {
		return ErrConversationNotFound
	}
	return nil
}

// Conversations lists the user's threads as buyer or owner, most recent activity first.
func (s *Service) Conversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := s.DB.WithContext(ctx).
		Where("buyer_id = ? OR owner_id = ?", userID, userID).
		Order("last_message_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Messages returns the thread oldest first and marks messages addressed to userID as read.
func (s *Service) Messages(ctx context.Context, userID uuid.UUID, conversationID uint) ([]domain.Message, error) {
	var conv domain.Conversation
	if err := findConversation(s.DB.WithContext(ctx), userID, conversationID, &conv); err != nil {
		return nil, err
	}
	now := time.Now()
	if err := s.DB.WithContext(ctx).Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conv.ID, userID).
		Update("read_at", now).Error; err != nil {
		return nil, err
	}
	var out []domain.Message
	if err := s.DB.WithContext(ctx).Where("conversation_id = ?", conv.ID).Order(`"createdAt" ASC`).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadCount counts messages addressed to the user that have not been read.
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Message{}).
		Joins(`JOIN "Conversations" c ON c.id = "Messages".conversation_id`).
		Where(`(c.buyer_id = ? OR c.owner_id = ?) AND "Messages".sender_id <> ? AND "Messages".read_at IS NULL`, userID, userID, userID).
		Count(&n).Error
	return n, err
}

func (s *Service) notify(ctx context.Context, conv *domain.Conversation, senderID uuid.UUID, body string) {
	if s.Notifier == nil {
		return
	}
	preview := body
	if r := []rune(preview); len(r) > 120 {
		preview = string(r[:120]) + "…"
	}
	n := &domain.Notification{
		UserID:    conv.Counterpart(senderID),
		Type:      domain.NotifyNewMessage,
		Title:     "New message about " + conv.ListingTitle,
		Body:      preview,
		Reference: "conversation:" + strconv.FormatUint(uint64(conv.ID), 10),
	}
	if err := s.Notifier.Notify(ctx, n); err != nil {
		log.Warn().Err(err).Uint("conversation_id", conv.ID).Msg("message notification failed")
	}
}
