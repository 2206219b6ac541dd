package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCountsWithinWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, err := store.IncrWithTTL(ctx, "ip:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(i), count)
	}

	count, err := store.IncrWithTTL(ctx, "ip:5.6.7.8", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "keys are independent")
}

func TestMemoryStoreResetsAfterWindow(t *testing.T) {
	store := NewMemoryStore()
	current := time.Now()
	store.now = func() time.Time { return current }

	ctx := context.Background()
	_, err := store.IncrWithTTL(ctx, "k", time.Minute)
	require.NoError(t, err)

	current = current.Add(61 * time.Second)
	count, err := store.IncrWithTTL(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStorePrunesExpiredWindows(t *testing.T) {
	store := NewMemoryStore()
	current := time.Now()
	store.now = func() time.Time { return current }

	ctx := context.Background()
	for i := 0; i < 5000; i++ {
		_, err := store.IncrWithTTL(ctx, fmt.Sprintf("k%d", i), time.Second)
		require.NoError(t, err)
	}

	current = current.Add(2 * time.Second)
	_, err := store.IncrWithTTL(ctx, "fresh", time.Second)
	require.NoError(t, err)

	store.mu.Lock()
	size := len(store.windows)
	store.mu.Unlock()
	assert.Equal(t, 1, size, "expired windows should be swept")
}
