package search

import (
	"context"
	"encoding/json"
	"strings"

	"homescout-backend/internal/domain"
	"homescout-backend/internal/pkg/validation"
	pipeline "homescout-backend/internal/search"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultRadiusKm     = 10.0
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Snapshotter supplies the approved listings to search over.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]domain.Listing, error)
}

type Service struct {
	DB              *gorm.DB
	Catalog         Snapshotter
	DefaultRadiusKm float64
}

// Request is a search as the client sends it. Unknown enum values are dropped
// and a location is only used when both coordinates are present and in range.
type Request struct {
	Query         string   `json:"query"`
	MarketType    string   `json:"market_type"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Address       string   `json:"address"`
	RadiusKm      float64  `json:"radius_km"`
	PropertyTypes []string `json:"property_types"`
	MinPrice      int64    `json:"min_price"`
	MaxPrice      int64    `json:"max_price"`
	Bedrooms      string   `json:"bedrooms"`
	Furnishing    string   `json:"furnishing"`
	Parking       *bool    `json:"parking"`
	PetsAllowed   *bool    `json:"pets_allowed"`
	Amenities     []string `json:"amenities"`
	Floor         string   `json:"floor"`
	Sort          string   `json:"sort"`
	Limit         int      `json:"limit"`
	Offset        int      `json:"offset"`
}

type Response struct {
	Listings         []domain.Listing  `json:"listings"`
	Total            int               `json:"total"`
	Empty            bool              `json:"empty"`
	Message          string            `json:"message,omitempty"`
	Distances        map[int64]float64 `json:"distances,omitempty"`
	HasActiveFilters bool              `json:"has_active_filters"`
}

// parsed is a Request resolved into pipeline inputs.
type parsed struct {
	market   domain.MarketType
	query    pipeline.Query
	criteria domain.FilterCriteria
	sortKey  domain.SortKey
}

func (s *Service) parse(req Request) parsed {
	var p parsed
	if m, ok := domain.ParseMarketType(req.MarketType); ok {
		p.market = m
		p.criteria.MarketType = m
	}
	for _, raw := range req.PropertyTypes {
		if pt, ok := domain.ParsePropertyType(raw); ok {
			p.criteria.PropertyTypes = append(p.criteria.PropertyTypes, pt)
		}
	}
	p.criteria.MinPrice = max(req.MinPrice, 0)
	p.criteria.MaxPrice = max(req.MaxPrice, 0)
	p.criteria.Bedrooms = strings.TrimSpace(req.Bedrooms)
	if f, ok := domain.ParseFurnishing(req.Furnishing); ok {
		p.criteria.Furnishing = f
	}
	p.criteria.Parking = req.Parking
	p.criteria.PetsAllowed = req.PetsAllowed
	for _, a := range req.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			p.criteria.Amenities = append(p.criteria.Amenities, a)
		}
	}
	p.criteria.Floor = strings.TrimSpace(req.Floor)

	p.query.Text = req.Query
	p.query.Filter = &p.criteria
	if req.Latitude != nil && req.Longitude != nil && validation.IsValidCoordinate(*req.Latitude, *req.Longitude) {
		radius := req.RadiusKm
		if radius == 0 {
			radius = s.defaultRadius()
		}
		p.query.Location = &domain.LocationQuery{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
			Address:   strings.TrimSpace(req.Address),
			RadiusKm:  radius,
		}
	}
	if key, ok := domain.ParseSortKey(req.Sort); ok {
		p.sortKey = key
		srt, _ := key.Sort()
		p.query.Sort = &srt
	}
	return p
}

func (s *Service) defaultRadius() float64 {
	if s.DefaultRadiusKm > 0 {
		return s.DefaultRadiusKm
	}
	return DefaultRadiusKm
}

// blank reports whether the request asks for nothing beyond the full catalog.
func (p parsed) blank() bool {
	return strings.TrimSpace(p.query.Text) == "" &&
		p.query.Location == nil &&
		p.market == "" &&
		p.sortKey == "" &&
		!pipeline.HasActiveFilters(p.criteria)
}

// Search runs req over the approved listings. A known user gets a history entry
// for every non-blank search; failing to write it does not fail the search.
func (s *Service) Search(ctx context.Context, userID uuid.UUID, req Request) (*Response, error) {
	snapshot, err := s.Catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	p := s.parse(req)

	candidates := snapshot
	if p.market != "" {
		candidates = pipeline.ApplyFilters(domain.FilterCriteria{MarketType: p.market}, snapshot)
	}
	res := pipeline.Run(candidates, p.query)

	out := &Response{
		Listings:         page(res.Listings, req.Offset, req.Limit),
		Total:            len(res.Listings),
		Empty:            res.Empty,
		Message:          res.Message,
		Distances:        res.Distances,
		HasActiveFilters: pipeline.HasActiveFilters(p.criteria),
	}

	if userID != uuid.Nil && !p.blank() {
		if err := s.record(ctx, userID, p, out.Total); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("search history write failed")
		}
	}
	return out, nil
}

func page(listings []domain.Listing, offset, limit int) []domain.Listing {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(listings) {
		return []domain.Listing{}
	}
	listings = listings[offset:]
	if limit > 0 && limit < len(listings) {
		listings = listings[:limit]
	}
	return listings
}

func (s *Service) record(ctx context.Context, userID uuid.UUID, p parsed, count int) error {
	criteria, err := json.Marshal(p.criteria)
	if err != nil {
		return err
	}
	h := domain.SearchHistory{
		UserID:      userID,
		Query:       strings.TrimSpace(p.query.Text),
		Criteria:    datatypes.JSON(criteria),
		SortKey:     string(p.sortKey),
		ResultCount: count,
	}
	if loc := p.query.Location; loc != nil {
		lat, lon, radius := loc.Latitude, loc.Longitude, loc.RadiusKm
		h.Latitude, h.Longitude, h.RadiusKm = &lat, &lon, &radius
		h.Address = loc.Address
	}
	return s.DB.WithContext(ctx).Create(&h).Error
}

// History returns the user's searches, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]domain.SearchHistory, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)
	var out []domain.SearchHistory
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(`"createdAt" DESC`).Order("id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) ClearHistory(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.SearchHistory{})
	return res.RowsAffected, res.Error
}
