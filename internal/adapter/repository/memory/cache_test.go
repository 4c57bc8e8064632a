package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goremit/internal/usecase"
)

func TestCacheSetGetExpire(t *testing.T) {
	ctx := context.Background()
	c := NewCache()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)
}

func TestCacheDeletePrefixAndFlush(t *testing.T) {
	ctx := context.Background()
	c := NewCache()

	require.NoError(t, c.Set(ctx, "history:1:a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "history:1:b", []byte("2"), 0))
	require.NoError(t, c.Set(ctx, "history:11:a", []byte("3"), 0))
	require.NoError(t, c.Set(ctx, "quote:USD", []byte("4"), 0))

	require.NoError(t, c.DeletePrefix(ctx, "history:1:"))
	assert.Equal(t, 2, c.Len())

	_, err := c.Get(ctx, "history:11:a")
	assert.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "quote:USD"))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Flush(ctx))
	assert.Equal(t, 0, c.Len())
}
