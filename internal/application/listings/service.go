package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"homescout-backend/internal/domain"
	"homescout-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Invalidator drops cached copies of the approved listing set.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	DB    *gorm.DB
	Cache Invalidator // optional
}

// ListingInput is the owner-editable part of a listing. Enum fields are raw
// strings and are parsed here.
type ListingInput struct {
	Title        string              `json:"title"`
	Developer    string              `json:"developer"`
	Price        string              `json:"price"`
	Area         string              `json:"area"`
	Bedrooms     int                 `json:"bedrooms"`
	Bathrooms    int                 `json:"bathrooms"`
	Images       map[string][]string `json:"images"`
	Location     string              `json:"location"`
	MarketType   string              `json:"market_type"`
	Latitude     float64             `json:"latitude"`
	Longitude    float64             `json:"longitude"`
	PropertyType string              `json:"property_type"`
	Floor        string              `json:"floor"`
	Furnishing   string              `json:"furnishing"`
	Parking      bool                `json:"parking"`
	PetsAllowed  bool                `json:"pets_allowed"`
	Amenities    []string            `json:"amenities"`
	Description  *string             `json:"description"`
}

// apply validates in and copies it onto l.
func (in ListingInput) apply(l *domain.Listing) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(in.Price) == "" {
		return ErrPriceRequired
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return ErrLocationRequired
	}
	market, ok := domain.ParseMarketType(in.MarketType)
	if !ok {
		return ErrInvalidMarketType
	}
	ptype, ok := domain.ParsePropertyType(in.PropertyType)
	if !ok {
		return ErrInvalidPropertyType
	}
	var furnishing domain.Furnishing
	if strings.TrimSpace(in.Furnishing) != "" {
		if furnishing, ok = domain.ParseFurnishing(in.Furnishing); !ok {
			return ErrInvalidFurnishing
		}
	}
	if !validation.IsValidCoordinate(in.Latitude, in.Longitude) {
		return ErrInvalidCoordinates
	}
	if in.Bedrooms < 0 || in.Bathrooms < 0 {
		return ErrInvalidRooms
	}
	images := map[string][]string{}
	for category, urls := range in.Images {
		for _, u := range urls {
			if !validation.IsHTTPURL(u) {
				return ErrInvalidImageURL
			}
		}
		if len(urls) > 0 {
			images[strings.ToLower(strings.TrimSpace(category))] = urls
		}
	}
	amenities := make([]string, 0, len(in.Amenities))
	for _, a := range in.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			amenities = append(amenities, a)
		}
	}
	var description *string
	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != "" {
			description = &d
		}
	}

	l.Title = title
	l.Developer = strings.TrimSpace(in.Developer)
	l.Price = strings.TrimSpace(in.Price)
	l.Area = strings.TrimSpace(in.Area)
	l.Bedrooms = in.Bedrooms
	l.Bathrooms = in.Bathrooms
	l.Images = datatypes.NewJSONType(images)
	l.Location = location
	l.MarketType = market
	l.Latitude = in.Latitude
	l.Longitude = in.Longitude
	l.PropertyType = ptype
	l.Floor = strings.TrimSpace(in.Floor)
	l.Furnishing = furnishing
	l.Parking = in.Parking
	l.PetsAllowed = in.PetsAllowed
	l.Amenities = amenities
	l.Description = description
	return nil
}

// Create stores a new listing in Pending status and records a CREATED event.
// Owner name and phone are copied from the account.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in ListingInput) (*domain.Listing, error) {
	var owner domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", ownerID).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}
	listing := &domain.Listing{
		OwnerID:    ownerID,
		OwnerName:  owner.Fullname,
		OwnerPhone: owner.Phone,
		Status:     domain.StatusPending,
	}
	if err := in.apply(listing); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return fmt.Errorf("Failed to create listing: %w", err)
		}
		return RecordEvent(tx, listing.ID, domain.EventCreated, &ownerID, map[string]interface{}{
			"price":       listing.Price,
			"market_type": listing.MarketType,
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return listing, nil
}

// Get returns a listing the viewer may see. Hidden listings read as not found.
func (s *Service) Get(ctx context.Context, id int64, viewer uuid.UUID, admin bool) (*domain.Listing, error) {
	l, err := s.find(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !admin && !l.VisibleTo(viewer) {
		return nil, ErrListingNotFound
	}
	return l, nil
}

// RecordView counts one view. Signed-in viewers also count once towards unique
// views; owners viewing their own listing are not counted.
func (s *Service) RecordView(ctx context.Context, id int64, viewer uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if viewer != uuid.Nil && viewer == l.OwnerID {
			return nil
		}
		updates := map[string]interface{}{"view_count": gorm.Expr("view_count + 1")}
		if viewer != uuid.Nil {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&domain.ListingView{ListingID: id, ViewerID: viewer})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				updates["unique_view_count"] = gorm.Expr("unique_view_count + 1")
			}
		}
		return tx.Model(&domain.Listing{}).Where("id = ?", id).UpdateColumns(updates).Error
	})
}

// Update replaces the editable fields. An Approved or Rejected listing goes back
// to Pending for another review.
func (s *Service) Update(ctx context.Context, ownerID uuid.UUID, id int64, in ListingInput) (*domain.Listing, error) {
	var out *domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if l.OwnerID != ownerID {
			return ErrNotOwner
		}
		prev := l.Status
		if err := in.apply(l); err != nil {
			return err
		}
		event := domain.EventUpdated
		if prev != domain.StatusPending {
			event = domain.EventResubmitted
			l.Status = domain.StatusPending
			l.RejectionReason = nil
		}
		if err := tx.Save(l).Error; err != nil {
			return err
		}
		out = l
		return RecordEvent(tx, id, event, &ownerID, map[string]interface{}{"previous_status": prev})
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return out, nil
}

// SoftDelete withdraws a listing: it is kept as Rejected and disappears from search.
func (s *Service) SoftDelete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if l.OwnerID != ownerID {
			return ErrNotOwner
		}
		reason := "Withdrawn by owner"
		if err := tx.Model(l).Updates(map[string]interface{}{
			"status":           domain.StatusRejected,
			"rejection_reason": reason,
		}).Error; err != nil {
			return err
		}
		return RecordEvent(tx, id, domain.EventWithdrawn, &ownerID, map[string]interface{}{"previous_status": l.Status})
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// HardDelete removes the listing with its views and favorites. Allowed for the
// owner and for admins. The event trail is kept.
func (s *Service) HardDelete(ctx context.Context, actorID uuid.UUID, admin bool, id int64) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if !admin && l.OwnerID != actorID {
			return ErrNotOwner
		}
		if err := tx.Where("listing_id = ?", id).Delete(&domain.ListingView{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&domain.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(l).Error; err != nil {
			return err
		}
		return RecordEvent(tx, id, domain.EventDeleted, &actorID, map[string]interface{}{
			"title":    l.Title,
			"by_admin": admin && l.OwnerID != actorID,
		})
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListByOwner returns every listing of the owner, any status, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order(`"createdAt" DESC`).Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListApproved returns the full approved set in a stable order (newest first).
// This is the candidate list fed to search.
func (s *Service) ListApproved(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := s.DB.WithContext(ctx).Where("status = ?", domain.StatusApproved).Order(`"createdAt" DESC`).Order("id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch listings: %w", err)
	}
	return out, nil
}

// Events returns the lifecycle trail of a listing, oldest first.
func (s *Service) Events(ctx context.Context, id int64) ([]domain.ListingEvent, error) {
	var out []domain.ListingEvent
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", id).Order("event_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) find(db *gorm.DB, id int64) (*domain.Listing, error) {
	var l domain.Listing
	if err := db.Where("id = ?", id).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx)
	}
}

// RecordEvent appends a lifecycle event inside tx.
func RecordEvent(tx *gorm.DB, listingID int64, eventType string, actor *uuid.UUID, data map[string]interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := tx.Create(&domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		EventData: datatypes.JSON(b),
		ActorID:   actor,
	}).Error; err != nil {
		log.Warn().Err(err).Int64("listing_id", listingID).Str("event", eventType).Msg("listing event not recorded")
		return fmt.Errorf("Failed to create listing event: %w", err)
	}
	return nil
}
