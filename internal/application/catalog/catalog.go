// Package catalog serves the materialized set of Approved listings that search runs over.
// Lookups go L1 (in-process ccache) then L2 (shared Redis or memcached) then the database.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"homescout-backend/internal/domain"
	"homescout-backend/internal/infrastructure/cache"

	"github.com/karlseguin/ccache/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const snapshotKey = "listings:approved"

// Loader reads the approved listings from the source of truth.
type Loader func(ctx context.Context) ([]domain.Listing, error)

type Cache struct {
	local  *ccache.Cache[[]domain.Listing]
	remote cache.Remote // nil when no shared cache is configured
	load   Loader
	ttl    time.Duration
	group  singleflight.Group

	// mu orders cache writes against Invalidate. A load only stores its result
	// if gen is unchanged since it started.
	mu  sync.Mutex
	gen uint64
}

func New(load Loader, remote cache.Remote, ttl time.Duration) *Cache {
	return &Cache{
		local:  ccache.New(ccache.Configure[[]domain.Listing]().MaxSize(16)),
		remote: remote,
		load:   load,
		ttl:    ttl,
	}
}

// Snapshot returns the approved listings. The returned slice is shared and must not be modified.
func (c *Cache) Snapshot(ctx context.Context) ([]domain.Listing, error) {
	if item := c.local.Get(snapshotKey); item != nil && !item.Expired() {
		return item.Value(), nil
	}
	v, err, _ := c.group.Do(snapshotKey, func() (interface{}, error) {
		gen := c.generation()
		if listings, ok := c.fromRemote(ctx); ok {
			c.store(ctx, gen, listings, false)
			return listings, nil
		}
		listings, err := c.load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load approved listings: %w", err)
		}
		c.store(ctx, gen, listings, true)
		return listings, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Listing), nil
}

func (c *Cache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// store fills L1, and L2 when remote is set, unless an Invalidate ran since gen was read.
func (c *Cache) store(ctx context.Context, gen uint64, listings []domain.Listing, remote bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		log.Debug().Msg("catalog load superseded by invalidate, not cached")
		return
	}
	c.local.Set(snapshotKey, listings, c.ttl)
	if remote {
		c.toRemote(ctx, listings)
	}
}

func (c *Cache) fromRemote(ctx context.Context) ([]domain.Listing, bool) {
	if c.remote == nil {
		return nil, false
	}
	b, err := c.remote.Get(ctx, snapshotKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Msg("catalog remote get failed")
		}
		return nil, false
	}
	var listings []domain.Listing
	if err := json.Unmarshal(b, &listings); err != nil {
		log.Warn().Err(err).Msg("catalog remote entry unreadable")
		return nil, false
	}
	return listings, true
}

func (c *Cache) toRemote(ctx context.Context, listings []domain.Listing) {
	if c.remote == nil {
		return
	}
	b, err := json.Marshal(listings)
	if err != nil {
		log.Warn().Err(err).Msg("catalog encode failed")
		return
	}
	if err := c.remote.Set(ctx, snapshotKey, b, c.ttl); err != nil {
		log.Warn().Err(err).Msg("catalog remote set failed")
	}
}

// Invalidate drops the snapshot from both tiers. Called after every listing write.
// A load already in flight still answers its callers but is not cached, and the
// next Snapshot starts a fresh load.
func (c *Cache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.group.Forget(snapshotKey)
	c.local.Delete(snapshotKey)
	if c.remote == nil {
		return
	}
	if err := c.remote.Delete(ctx, snapshotKey); err != nil {
		log.Warn().Err(err).Msg("catalog remote delete failed")
	}
}

func (c *Cache) Stop() {
	c.local.Stop()
}
