package services

import (
	"errors"
	"log"
	"time"

	"github.com/random0602/DailyGlow/cache"
)

// ListCache is the subset of cache.RedisCache the stores rely on.
type ListCache interface {
	Get(key string, dest interface{}) error
	Set(key string, value interface{}, expiration time.Duration) error
	Delete(keys ...string) error
}

// cachedList reads key through c, loading and storing on a miss.
// Cache failures never fail the request.
func cachedList[T any](c ListCache, ttl time.Duration, key string, load func() ([]T, error)) ([]T, error) {
	if c == nil {
		return load()
	}

	var items []T
	err := c.Get(key, &items)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Cache read failed for %s: %v", key, err)
	}

	items, err = load()
	if err != nil {
		return nil, err
	}
	if err := c.Set(key, items, ttl); err != nil {
		log.Printf("Cache write failed for %s: %v", key, err)
	}
	return items, nil
}

func invalidate(c ListCache, keys ...string) {
	if c == nil {
		return
	}
	if err := c.Delete(keys...); err != nil {
		log.Printf("Cache invalidation failed for %v: %v", keys, err)
	}
}
