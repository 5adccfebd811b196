package cache

import (
	"context"
	"testing"
	"time"

	"github.com/playforge/studio/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(logger.New("error", "json"))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	val, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), val)

	_, found, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(logger.New("error", "json"))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := NewMemoryCache(logger.New("error", "json"))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "published:community:20:0", []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "published:marketplace:20:0", []byte("b"), time.Minute))
	require.NoError(t, c.Set(ctx, "other:key", []byte("c"), time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, "published:"))

	_, found, _ := c.Get(ctx, "published:community:20:0")
	assert.False(t, found)
	_, found, _ = c.Get(ctx, "published:marketplace:20:0")
	assert.False(t, found)
	_, found, _ = c.Get(ctx, "other:key")
	assert.True(t, found)
}
