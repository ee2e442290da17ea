package favorites

import (
	"context"
	"errors"
	"slices"
	"time"

	"homescout-backend/internal/application/listings"
	"homescout-backend/internal/domain"
	"homescout-backend/internal/pkg/ttlcache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultIDsTTL  = 5 * time.Minute
	maxCachedUsers = 10000
)

type Service struct {
	DB  *gorm.DB
	ids *ttlcache.Cache[uuid.UUID, []int64]
}

// NewService caches each user's saved ids for ttl. now may be nil.
func NewService(db *gorm.DB, ttl time.Duration, now func() time.Time) *Service {
	opts := []ttlcache.Option[uuid.UUID, []int64]{ttlcache.WithMaxEntries[uuid.UUID, []int64](maxCachedUsers)}
	if now != nil {
		opts = append(opts, ttlcache.WithClock[uuid.UUID, []int64](now))
	}
	if ttl <= 0 {
		ttl = DefaultIDsTTL
	}
	return &Service{DB: db, ids: ttlcache.New(ttl, opts...)}
}

// Toggle saves or un-saves a listing and reports whether it is now saved.
func (s *Service) Toggle(ctx context.Context, userID uuid.UUID, listingID int64) (bool, error) {
	saved := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l domain.Listing
		if err := tx.Select("id", "status", "owner_id").Where("id = ?", listingID).First(&l).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return listings.ErrListingNotFound
			}
			return err
		}
		if !l.VisibleTo(userID) {
			return listings.ErrListingNotFound
		}

		res := tx.Where("user_id = ? AND listing_id = ?", userID, listingID).Delete(&domain.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Model(&domain.Listing{}).Where("id = ?", listingID).
				UpdateColumn("favorite_count", gorm.Expr("CASE WHEN favorite_count > 0 THEN favorite_count - 1 ELSE 0 END")).Error
		}

		if err := tx.Create(&domain.Favorite{UserID: userID, ListingID: listingID}).Error; err != nil {
			return err
		}
		saved = true
		return tx.Model(&domain.Listing{}).Where("id = ?", listingID).
			UpdateColumn("favorite_count", gorm.Expr("favorite_count + 1")).Error
	})
	if err != nil {
		return false, err
	}
	s.ids.Delete(userID)
	return saved, nil
}

// List returns the user's saved listings that are still Approved, most recently saved first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	var out []domain.Listing
	err := s.DB.WithContext(ctx).
		Model(&domain.Listing{}).
		Joins(`JOIN "Favorites" f ON f.listing_id = "Listings".id`).
		Where(`f.user_id = ? AND "Listings".status = ?`, userID, domain.StatusApproved).
		Order(`f."createdAt" DESC`).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IDs returns the ids of every listing the user has saved.
func (s *Service) IDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	if ids, ok := s.ids.Get(userID); ok {
		return slices.Clone(ids), nil
	}
	var ids []int64
	err := s.DB.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Order("listing_id").
		Pluck("listing_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	s.ids.Set(userID, ids)
	return slices.Clone(ids), nil
}
