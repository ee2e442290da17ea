// Package nearby finds amenities around a property. Each category is fetched
// from Overpass in parallel; categories that fail or come back empty are filled
// with generated places so the screen always has something to show.
package nearby

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"homescout-backend/internal/pkg/ttlcache"
	"homescout-backend/internal/pkg/validation"
	"homescout-backend/internal/search"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Category string

const (
	CategoryHospital   Category = "hospital"
	CategorySchool     Category = "school"
	CategoryRestaurant Category = "restaurant"
	CategoryBank       Category = "bank"
	CategoryPark       Category = "park"
	CategoryTransport  Category = "transport"
	CategoryShopping   Category = "shopping"
)

// Categories in display order.
var Categories = []Category{
	CategoryHospital, CategorySchool, CategoryRestaurant, CategoryBank,
	CategoryPark, CategoryTransport, CategoryShopping,
}

const (
	DefaultRadiusMeters = 2000
	MinRadiusMeters     = 100
	MaxRadiusMeters     = 10000
	DefaultPerCategory  = 5
	DefaultTimeout      = 8 * time.Second
	DefaultCacheTTL     = 30 * time.Minute
	DefaultCacheEntries = 5000
)

var ErrInvalidCoordinates = errors.New("Latitude must be within ±90 and longitude within ±180")

type Place struct {
	Name       string   `json:"name"`
	Category   Category `json:"category"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	DistanceKm float64  `json:"distance_km"`
}

type Group struct {
	Category  Category `json:"category"`
	Places    []Place  `json:"places"`
	Generated bool     `json:"generated"`
}

type Result struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters int     `json:"radius_meters"`
	Groups       []Group `json:"groups"`
	Generated    bool    `json:"generated"`
}

// Fetcher returns the places of one category around a point.
type Fetcher interface {
	Fetch(ctx context.Context, cat Category, lat, lon float64, radiusMeters, limit int) ([]Place, error)
}

// Cache holds results per rounded point.
type Cache = ttlcache.Cache[string, Result]

// NewCache returns a result cache capped at DefaultCacheEntries. Extra options,
// such as ttlcache.WithClock, are applied after the cap.
func NewCache(ttl time.Duration, opts ...ttlcache.Option[string, Result]) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	opts = append([]ttlcache.Option[string, Result]{ttlcache.WithMaxEntries[string, Result](DefaultCacheEntries)}, opts...)
	return ttlcache.New(ttl, opts...)
}

type Service struct {
	Fetcher     Fetcher
	Timeout     time.Duration
	PerCategory int
	cache       *Cache
}

// NewService uses cache for results; nil gets NewCache(DefaultCacheTTL).
func NewService(f Fetcher, timeout time.Duration, cache *Cache) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if cache == nil {
		cache = NewCache(DefaultCacheTTL)
	}
	return &Service{
		Fetcher:     f,
		Timeout:     timeout,
		PerCategory: DefaultPerCategory,
		cache:       cache,
	}
}

func clampRadius(r int) int {
	if r <= 0 {
		return DefaultRadiusMeters
	}
	return min(max(r, MinRadiusMeters), MaxRadiusMeters)
}

// cacheKey rounds to three decimals (about 100 m) so nearby lookups share an entry.
func cacheKey(lat, lon float64, radius int) string {
	return fmt.Sprintf("%.3f,%.3f,%d", lat, lon, radius)
}

// Nearby returns places for every category around lat/lon.
func (s *Service) Nearby(ctx context.Context, lat, lon float64, radiusMeters int) (Result, error) {
	if !validation.IsValidCoordinate(lat, lon) {
		return Result{}, ErrInvalidCoordinates
	}
	radius := clampRadius(radiusMeters)
	key := cacheKey(lat, lon, radius)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	groups := make([]Group, len(Categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range Categories {
		g.Go(func() error {
			places, err := s.Fetcher.Fetch(gctx, cat, lat, lon, radius, s.PerCategory*4)
			if err != nil {
				log.Warn().Err(err).Str("category", string(cat)).Msg("nearby fetch failed")
			}
			groups[i] = Group{Category: cat, Places: s.rank(places, lat, lon, radius)}
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Latitude: lat, Longitude: lon, RadiusMeters: radius, Groups: groups}
	fetched := 0
	for i := range res.Groups {
		if len(res.Groups[i].Places) > 0 {
			fetched++
			continue
		}
		res.Groups[i].Places = generate(key, res.Groups[i].Category, lat, lon, radius, s.PerCategory)
		res.Groups[i].Generated = true
		res.Generated = true
	}
	// A fully generated result usually means Overpass is down; retry next time.
	if fetched > 0 {
		s.cache.Set(key, res)
	}
	return res, nil
}

// rank fills distances, drops places outside the radius and keeps the nearest.
func (s *Service) rank(places []Place, lat, lon float64, radius int) []Place {
	limitKm := float64(radius) / 1000
	out := make([]Place, 0, len(places))
	for _, p := range places {
		p.DistanceKm = roundKm(search.Distance(lat, lon, p.Latitude, p.Longitude))
		if p.DistanceKm <= limitKm {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b Place) int { return cmp.Compare(a.DistanceKm, b.DistanceKm) })
	if len(out) > s.PerCategory {
		out = out[:s.PerCategory]
	}
	return out
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

var generatedNames = map[Category][]string{
	CategoryHospital:   {"City Care Hospital", "Sunrise Multispeciality Clinic", "LifeLine Hospital", "Apollo Health Centre", "Shanti Nursing Home"},
	CategorySchool:     {"Green Valley Public School", "St. Xavier's High School", "Little Stars Academy", "National Junior College", "Vidya Mandir School"},
	CategoryRestaurant: {"Spice Route Kitchen", "Cafe Monsoon", "Udupi Sagar", "The Tandoor House", "Chai Point"},
	CategoryBank:       {"State Bank ATM", "HDFC Bank Branch", "ICICI Bank ATM", "Axis Bank Branch", "Canara Bank"},
	CategoryPark:       {"Central Park", "Lotus Garden", "Riverside Walk", "Children's Play Park", "Jogger's Park"},
	CategoryTransport:  {"Metro Station", "City Bus Depot", "Railway Station", "Auto Stand", "Bus Stop"},
	CategoryShopping:   {"Phoenix Mall", "Fresh Mart Supermarket", "Big Bazaar", "Market Square", "D-Mart"},
}

// generate returns n places scattered inside the radius. The same key and
// category always give the same places.
func generate(key string, cat Category, lat, lon float64, radius, n int) []Place {
	h := fnv.New64a()
	h.Write([]byte(key))
	h.Write([]byte{0})
	h.Write([]byte(cat))
	seed := h.Sum64()
	r := rand.New(rand.NewPCG(seed, seed>>1|1))

	names := generatedNames[cat]
	maxKm := float64(radius) / 1000
	out := make([]Place, 0, n)
	for i := 0; i < n; i++ {
		bearing := r.Float64() * 2 * math.Pi
		dist := maxKm * (0.1 + 0.8*r.Float64())
		pLat, pLon := offset(lat, lon, dist, bearing)
		out = append(out, Place{
			Name:       names[i%len(names)],
			Category:   cat,
			Latitude:   pLat,
			Longitude:  pLon,
			DistanceKm: roundKm(search.Distance(lat, lon, pLat, pLon)),
		})
	}
	slices.SortStableFunc(out, func(a, b Place) int { return cmp.Compare(a.DistanceKm, b.DistanceKm) })
	return out
}

// offset moves distKm along bearing (radians) on a sphere.
func offset(lat, lon, distKm, bearing float64) (float64, float64) {
	ang := distKm / search.EarthRadiusKm
	lat1 := lat * math.Pi / 180
	lon1 := lon * math.Pi / 180
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ang) + math.Cos(lat1)*math.Sin(ang)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(math.Sin(bearing)*math.Sin(ang)*math.Cos(lat1), math.Cos(ang)-math.Sin(lat1)*math.Sin(lat2))
	return lat2 * 180 / math.Pi, math.Mod(lon2*180/math.Pi+540, 360) - 180
}
