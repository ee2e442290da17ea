package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"homescout-backend/internal/domain"
	"homescout-backend/internal/infrastructure/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls    atomic.Int32
	listings []domain.Listing
	err      error
}

func (l *countingLoader) Load(ctx context.Context) ([]domain.Listing, error) {
	l.calls.Add(1)
	return l.listings, l.err
}

func newRemote(t *testing.T) (*cache.RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedisStore(client), mr
}

func TestSnapshot_LoadsOnceThenServesLocal(t *testing.T) {
	loader := &countingLoader{listings: []domain.Listing{{ID: 1, Title: "Sea View"}}}
	c := New(loader.Load, nil, time.Minute)
	defer c.Stop()

	for i := 0; i < 3; i++ {
		got, err := c.Snapshot(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestSnapshot_PopulatesAndReadsRemote(t *testing.T) {
	remote, mr := newRemote(t)
	loader := &countingLoader{listings: []domain.Listing{{ID: 7, Title: "Garden Flat", Price: "45,00,000"}}}

	first := New(loader.Load, remote, time.Minute)
	defer first.Stop()
	_, err := first.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists("cache:"+snapshotKey))

	// A second instance with a cold L1 is served from Redis.
	second := New(loader.Load, remote, time.Minute)
	defer second.Stop()
	got, err := second.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Garden Flat", got[0].Title)
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestInvalidate_DropsBothTiers(t *testing.T) {
	remote, mr := newRemote(t)
	loader := &countingLoader{listings: []domain.Listing{{ID: 1}}}
	c := New(loader.Load, remote, time.Minute)
	defer c.Stop()

	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	c.Invalidate(context.Background())
	assert.False(t, mr.Exists("cache:"+snapshotKey))

	_, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())
}

// gatedLoader blocks its first call until release is closed and returns the
// listings that were current when that call started.
type gatedLoader struct {
	mu      sync.Mutex
	calls   int
	current []domain.Listing
	started chan struct{}
	release chan struct{}
}

func (l *gatedLoader) Load(ctx context.Context) ([]domain.Listing, error) {
	l.mu.Lock()
	l.calls++
	first := l.calls == 1
	seen := l.current
	l.mu.Unlock()
	if first {
		close(l.started)
		<-l.release
	}
	return seen, nil
}

func (l *gatedLoader) approve(listings []domain.Listing) {
	l.mu.Lock()
	l.current = listings
	l.mu.Unlock()
}

func TestInvalidate_DuringLoadIsNotOverwritten(t *testing.T) {
	remote, mr := newRemote(t)
	loader := &gatedLoader{current: []domain.Listing{}, started: make(chan struct{}), release: make(chan struct{})}
	c := New(loader.Load, remote, time.Minute)
	defer c.Stop()

	done := make(chan []domain.Listing)
	go func() {
		got, err := c.Snapshot(context.Background())
		assert.NoError(t, err)
		done <- got
	}()
	<-loader.started

	// A listing is approved while the first load is still reading.
	loader.approve([]domain.Listing{{ID: 1, Title: "Lake View"}})
	c.Invalidate(context.Background())
	close(loader.release)

	assert.Empty(t, <-done)
	assert.False(t, mr.Exists("cache:"+snapshotKey))

	got, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lake View", got[0].Title)
	assert.Equal(t, 2, loader.calls)
}

func TestSnapshot_LoaderError(t *testing.T) {
	loader := &countingLoader{err: errors.New("db down")}
	c := New(loader.Load, nil, time.Minute)
	defer c.Stop()

	_, err := c.Snapshot(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestSnapshot_BrokenRemoteFallsBackToLoader(t *testing.T) {
	remote, mr := newRemote(t)
	mr.Close()
	loader := &countingLoader{listings: []domain.Listing{{ID: 3}}}
	c := New(loader.Load, remote, time.Minute)
	defer c.Stop()

	got, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
