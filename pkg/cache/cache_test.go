package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(4)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", entry{Name: "x", Count: 2}, time.Minute))

	var got entry
	require.NoError(t, c.Get(ctx, "a", &got))
	assert.Equal(t, entry{Name: "x", Count: 2}, got)

	assert.ErrorIs(t, c.Get(ctx, "b", &got), ErrMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(4)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, time.Second))
	now = now.Add(2 * time.Second)

	var got int
	assert.ErrorIs(t, c.Get(ctx, "a", &got), ErrMiss)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))

	var v int
	require.NoError(t, c.Get(ctx, "a", &v))
	require.NoError(t, c.Set(ctx, "c", 3, 0))

	assert.ErrorIs(t, c.Get(ctx, "b", &v), ErrMiss)
	require.NoError(t, c.Get(ctx, "a", &v))
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache(2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Delete(ctx, "a"))

	var v int
	assert.ErrorIs(t, c.Get(ctx, "a", &v), ErrMiss)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		t.Skip("Skipping integration test: redis not available")
	}
	defer c.Close()

	key := "txreport:test:" + time.Now().Format(time.RFC3339Nano)
	require.NoError(t, c.Set(ctx, key, entry{Name: "y", Count: 7}, time.Minute))
	defer c.Delete(ctx, key)

	var got entry
	require.NoError(t, c.Get(ctx, key, &got))
	assert.Equal(t, entry{Name: "y", Count: 7}, got)

	require.NoError(t, c.Delete(ctx, key))
	assert.ErrorIs(t, c.Get(ctx, key, &got), ErrMiss)
}
