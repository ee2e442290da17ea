package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcachedStore is the memcached backend. The client has no context support;
// ctx is accepted for interface parity only.
type MemcachedStore struct {
	Client *memcache.Client
}

func NewMemcachedStore(host string) *MemcachedStore {
	c := memcache.New(host)
	c.Timeout = 500 * time.Millisecond
	return &MemcachedStore{Client: c}
}

func (s *MemcachedStore) Get(_ context.Context, key string) ([]byte, error) {
	it, err := s.Client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return it.Value, nil
}

func (s *MemcachedStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return s.Client.Set(&memcache.Item{Key: key, Value: value, Expiration: expirationSeconds(ttl)})
}

func (s *MemcachedStore) Delete(_ context.Context, key string) error {
	err := s.Client.Delete(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}

func (s *MemcachedStore) Ping(_ context.Context) error {
	return s.Client.Ping()
}

// expirationSeconds rounds up so sub-second TTLs do not become "never expire" (0).
func expirationSeconds(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	secs := int32((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
