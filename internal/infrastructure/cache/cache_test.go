package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStore_RoundTripAndMiss(t *testing.T) {
	s, mr := setupRedisStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "listings")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "listings", []byte(`[1,2]`), time.Minute))
	assert.True(t, mr.Exists("cache:listings"))
	b, err := s.Get(ctx, "listings")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(b))

	mr.FastForward(2 * time.Minute)
	_, err = s.Get(ctx, "listings")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStore_Delete(t *testing.T) {
	s, _ := setupRedisStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, s.Ping(ctx))
}

func TestExpirationSeconds(t *testing.T) {
	assert.Equal(t, int32(0), expirationSeconds(0))
	assert.Equal(t, int32(1), expirationSeconds(10*time.Millisecond))
	assert.Equal(t, int32(120), expirationSeconds(2*time.Minute))
	assert.Equal(t, int32(2), expirationSeconds(1500*time.Millisecond))
}
