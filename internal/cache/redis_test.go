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

type payload struct {
	Names []string `json:"names"`
}

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, ttl), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := setupTestRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "menu:food", payload{Names: []string{"كباب"}}))
	assert.True(t, mr.Exists("catalog:menu:food"))

	var got payload
	require.NoError(t, c.Get(ctx, "menu:food", &got))
	assert.Equal(t, []string{"كباب"}, got.Names)
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := setupTestRedis(t, time.Minute)
	var got payload
	assert.ErrorIs(t, c.Get(context.Background(), "home", &got), ErrCacheMiss)
}

func TestRedisCache_TTLWithJitter(t *testing.T) {
	c, mr := setupTestRedis(t, 10*time.Minute)
	require.NoError(t, c.Set(context.Background(), "home", payload{}))

	ttl := mr.TTL("catalog:home")
	assert.GreaterOrEqual(t, ttl, 10*time.Minute)
	assert.Less(t, ttl, 12*time.Minute)

	mr.FastForward(13 * time.Minute)
	var got payload
	assert.ErrorIs(t, c.Get(context.Background(), "home", &got), ErrCacheMiss)
}

func TestRedisCache_InvalidateOnlyCatalogKeys(t *testing.T) {
	c, mr := setupTestRedis(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, mr.Set("other:key", "keep"))
	require.NoError(t, c.Set(ctx, "home", payload{}))
	require.NoError(t, c.Set(ctx, "menu:drink", payload{}))

	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists("catalog:home"))
	assert.False(t, mr.Exists("catalog:menu:drink"))
	assert.True(t, mr.Exists("other:key"))

	require.NoError(t, c.Invalidate(ctx))
}

func TestRedisCache_GetCorruptedValue(t *testing.T) {
	c, mr := setupTestRedis(t, time.Minute)
	require.NoError(t, mr.Set("catalog:home", "{not json"))
	var got payload
	err := c.Get(context.Background(), "home", &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestNop(t *testing.T) {
	var c CatalogCache = Nop{}
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "home", payload{}))
	var got payload
	assert.ErrorIs(t, c.Get(ctx, "home", &got), ErrCacheMiss)
	assert.NoError(t, c.Invalidate(ctx))
}
