package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIsAppendOnly(t *testing.T) {
	c := New[string]()

	assert.True(t, c.Add("MTA NYCT|B63", "first"))
	assert.False(t, c.Add("MTA NYCT|B63", "second"))

	v, ok := c.Get("MTA NYCT|B63")
	require.True(t, ok)
	assert.Equal(t, "first", v)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []string{"first"}, c.Values())
}

func TestGetOrFetchUsesCache(t *testing.T) {
	c := New[int]()
	c.Add("k", 7)

	v, err := c.GetOrFetch(context.Background(), "k", func(context.Context) (int, error) {
		t.Fatal("fetch should not be called for a cached key")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, int64(1), c.Stats().Hits)
}

func TestGetOrFetchDeduplicatesConcurrentCalls(t *testing.T) {
	c := New[int]()
	var calls atomic.Int32
	release := make(chan struct{})

	fetch := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrFetch(context.Background(), "k", fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// give the goroutines a chance to join the in-flight fetch
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, c.Len())
}

func TestGetOrFetchDoesNotCacheErrors(t *testing.T) {
	c := New[int]()
	boom := errors.New("boom")

	_, err := c.GetOrFetch(context.Background(), "k", func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	v, err := c.GetOrFetch(context.Background(), "k", func(context.Context) (int, error) {
		return 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestGetOrFetchHonoursCallerContext(t *testing.T) {
	c := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetOrFetch(ctx, "k", func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}
