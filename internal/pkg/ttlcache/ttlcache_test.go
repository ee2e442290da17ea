package ttlcache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time         { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func TestCache_ExpiresAfterTTL(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	c := New[string, int](time.Minute, WithClock[string, int](clk.Now))

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	clk.Advance(59 * time.Second)
	_, ok = c.Get("a")
	assert.True(t, ok)

	clk.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "expired at exactly ttl")
	assert.Equal(t, 0, c.Len())
}

func TestCache_SetRefreshesExpiry(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	c := New[int, string](time.Minute, WithClock[int, string](clk.Now))
	c.Set(1, "x")
	clk.Advance(50 * time.Second)
	c.Set(1, "y")
	clk.Advance(50 * time.Second)
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "y", v)
}

func TestCache_PurgeAndDelete(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	c := New[string, bool](time.Minute, WithClock[string, bool](clk.Now))
	c.Set("old", true)
	clk.Advance(2 * time.Minute)
	c.Set("new", true)
	assert.Equal(t, 1, c.Purge())
	c.Delete("new")
	assert.Equal(t, 0, c.Len())
}

func TestCache_MaxEntriesPrefersExpired(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	c := New[string, int](time.Minute, WithClock[string, int](clk.Now), WithMaxEntries[string, int](2))
	c.Set("stale", 1)
	clk.Advance(2 * time.Minute)
	c.Set("fresh", 2)
	c.Set("newest", 3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("fresh")
	assert.True(t, ok)
	_, ok = c.Get("newest")
	assert.True(t, ok)
}

func TestCache_MaxEntriesEvictsClosestToExpiry(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	c := New[int, int](time.Minute, WithClock[int, int](clk.Now), WithMaxEntries[int, int](3))
	for i := 0; i < 10; i++ {
		c.Set(i, i)
		clk.Advance(time.Second)
	}
	assert.Equal(t, 3, c.Len())
	for _, k := range []int{7, 8, 9} {
		_, ok := c.Get(k)
		assert.True(t, ok, "key %d", k)
	}

	// Overwriting an existing key never evicts.
	c.Set(9, 99)
	assert.Equal(t, 3, c.Len())
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int, int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i, i)
			c.Get(i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, c.Len())
}
