package moderation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"homescout-backend/internal/application/listings"
	"homescout-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrInvalidTransition = errors.New("Listing cannot move to that status from its current status")
	ErrReasonRequired    = errors.New("A rejection reason is required")

	// ErrWithdrawn wraps ErrInvalidTransition. The owner has to edit a withdrawn
	// listing, which resubmits it, before it can be approved.
	ErrWithdrawn = fmt.Errorf("%w: listing was withdrawn by its owner", ErrInvalidTransition)
)

// Notifier delivers a notification to a user.
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

type Service struct {
	DB       *gorm.DB
	Cache    listings.Invalidator // optional
	Notifier Notifier             // optional
}

// allowed lists the permitted review transitions.
var allowed = map[domain.ModerationStatus][]domain.ModerationStatus{
	domain.StatusPending:  {domain.StatusApproved, domain.StatusRejected},
	domain.StatusRejected: {domain.StatusApproved},
}

func canMove(from, to domain.ModerationStatus) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ListPending returns listings awaiting review, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := s.DB.WithContext(ctx).Where("status = ?", domain.StatusPending).Order(`"createdAt" ASC`).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Approve(ctx context.Context, adminID uuid.UUID, id int64) (*domain.Listing, error) {
	return s.transition(ctx, adminID, id, domain.StatusApproved, "")
}

func (s *Service) Reject(ctx context.Context, adminID uuid.UUID, id int64, reason string) (*domain.Listing, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.transition(ctx, adminID, id, domain.StatusRejected, reason)
}

func (s *Service) transition(ctx context.Context, adminID uuid.UUID, id int64, to domain.ModerationStatus, reason string) (*domain.Listing, error) {
	var l domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&l).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return listings.ErrListingNotFound
			}
			return err
		}
		from := l.Status
		if !canMove(from, to) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
		}
		if from == domain.StatusRejected {
			withdrawn, err := lastEventIs(tx, id, domain.EventWithdrawn)
			if err != nil {
				return err
			}
			if withdrawn {
				return ErrWithdrawn
			}
		}
		var rejection *string
		event := domain.EventApproved
		if to == domain.StatusRejected {
			rejection = &reason
			event = domain.EventRejected
		}
		if err := tx.Model(&l).Updates(map[string]interface{}{
			"status":           to,
			"rejection_reason": rejection,
		}).Error; err != nil {
			return err
		}
		l.Status = to
		l.RejectionReason = rejection
		return listings.RecordEvent(tx, id, event, &adminID, map[string]interface{}{
			"previous_status": from,
			"reason":          reason,
		})
	})
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		s.Cache.Invalidate(ctx)
	}
	s.notifyOwner(ctx, &l)
	return &l, nil
}

func lastEventIs(tx *gorm.DB, listingID int64, eventType string) (bool, error) {
	var ev domain.ListingEvent
	err := tx.Where("listing_id = ?", listingID).Order("event_id DESC").Limit(1).Find(&ev).Error
	if err != nil {
		return false, err
	}
	return ev.EventType == eventType, nil
}

func (s *Service) notifyOwner(ctx context.Context, l *domain.Listing) {
	if s.Notifier == nil {
		return
	}
	n := &domain.Notification{
		UserID:    l.OwnerID,
		Reference: "listing:" + strconv.FormatInt(l.ID, 10),
	}
	if l.Status == domain.StatusApproved {
		n.Type = domain.NotifyListingApproved
		n.Title = "Your listing is live"
		n.Body = fmt.Sprintf("%q has been approved and is now visible in search.", l.Title)
	} else {
		n.Type = domain.NotifyListingRejected
		n.Title = "Your listing needs changes"
		n.Body = fmt.Sprintf("%q was not approved: %s", l.Title, *l.RejectionReason)
	}
	if err := s.Notifier.Notify(ctx, n); err != nil {
		log.Warn().Err(err).Int64("listing_id", l.ID).Msg("moderation notification failed")
	}
}
