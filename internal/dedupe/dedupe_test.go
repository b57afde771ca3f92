package dedupe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_MarkSeen(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	seen, err := c.MarkSeen(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = c.MarkSeen(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = c.MarkSeen(ctx, "evt-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()

	_, err := c.MarkSeen(ctx, "evt-1")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	seen, err := c.MarkSeen(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen, "expired entries are forgotten")
}

func TestDisabled_NeverDeduplicates(t *testing.T) {
	c := Disabled{}

	for range 3 {
		seen, err := c.MarkSeen(context.Background(), "evt-1")
		require.NoError(t, err)
		assert.False(t, seen)
	}
}
