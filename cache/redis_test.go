package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	config := DefaultCacheConfig()
	config.Addr = mr.Addr()
	config.MaxRetries = 0

	cache := NewRedisCache(config)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestDefaultCacheConfig(t *testing.T) {
	config := DefaultCacheConfig()

	assert.Equal(t, "localhost:6379", config.Addr)
	assert.Equal(t, 0, config.DB)
	assert.Equal(t, 10, config.PoolSize)
	assert.Equal(t, 3*time.Second, config.ReadTimeout)
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache, mr := setupTestRedis(t)

	type entry struct {
		Title string `json:"title"`
		Done  bool   `json:"done"`
	}
	original := []entry{{Title: "Buy milk"}, {Title: "Walk", Done: true}}

	require.NoError(t, cache.Set(TasksKey("u1"), original, time.Minute))
	assert.True(t, mr.Exists("dailyglow:tasks:u1"))

	var got []entry
	require.NoError(t, cache.Get(TasksKey("u1"), &got))
	assert.Equal(t, original, got)
}

func TestRedisCache_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	var got []string
	err := cache.Get(MoodsKey("nobody"), &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Expiration(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set("short", "lived", time.Second))
	mr.FastForward(2 * time.Second)

	var got string
	assert.ErrorIs(t, cache.Get("short", &got), ErrCacheMiss)
}

func TestRedisCache_DeleteUserKeys(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(TasksKey("u1"), []string{"a"}, time.Minute))
	require.NoError(t, cache.Set(MoodsKey("u1"), []string{"b"}, time.Minute))
	require.NoError(t, cache.Set(TasksKey("u2"), []string{"c"}, time.Minute))

	require.NoError(t, cache.Delete(UserKeys("u1")...))

	assert.False(t, mr.Exists(TasksKey("u1")))
	assert.False(t, mr.Exists(MoodsKey("u1")))
	assert.True(t, mr.Exists(TasksKey("u2")))
	assert.NoError(t, cache.Delete())
}

func TestRedisCache_Down(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	assert.Error(t, cache.Health())
	assert.ErrorIs(t, cache.Set("k", "v", time.Minute), ErrCacheDown)

	var got string
	assert.ErrorIs(t, cache.Get("k", &got), ErrCacheDown)
}
