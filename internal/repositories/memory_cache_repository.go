package repositories

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCacheRepository keeps values in process memory. Used when Redis is disabled.
type MemoryCacheRepository struct {
	store *gocache.Cache
}

func NewMemoryCacheRepository(defaultExpiration, cleanupInterval time.Duration) CacheRepositoryInterface {
	return &MemoryCacheRepository{store: gocache.New(defaultExpiration, cleanupInterval)}
}

func (r *MemoryCacheRepository) Get(_ context.Context, key string) (string, error) {
	val, ok := r.store.Get(key)
	if !ok {
		return "", ErrCacheMiss
	}
	switch v := val.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func (r *MemoryCacheRepository) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	r.store.Set(key, value, expiration)
	return nil
}

func (r *MemoryCacheRepository) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		r.store.Delete(k)
	}
	return nil
}

// Incr creates the key at 1 when it does not exist, matching Redis INCR.
func (r *MemoryCacheRepository) Incr(_ context.Context, key string) (int64, error) {
	if err := r.store.Add(key, int64(1), gocache.NoExpiration); err == nil {
		return 1, nil
	}
	return r.store.IncrementInt64(key, 1)
}
