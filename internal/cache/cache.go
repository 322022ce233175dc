// Package cache holds records fetched during a session. Entries are added
// once and never replaced or evicted.
package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a key that isn't cached yet.
type FetchFunc[T any] func(ctx context.Context) (T, error)

type Cache[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	group singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

func New[T any]() *Cache[T] {
	return &Cache[T]{items: make(map[string]T)}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

// Add stores v under key unless key is already present. It reports whether
// v was stored.
func (c *Cache[T]) Add(key string, v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		return false
	}
	c.items[key] = v
	return true
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Values returns a snapshot of the cached values in no particular order.
func (c *Cache[T]) Values() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	values := make([]T, 0, len(c.items))
	for _, v := range c.items {
		values = append(values, v)
	}
	return values
}

func (c *Cache[T]) Stats() Stats {
	return Stats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// GetOrFetch returns the cached value for key, calling fetch when it is
// missing. Concurrent callers for the same key share one fetch.
func (c *Cache[T]) GetOrFetch(ctx context.Context, key string, fetch FetchFunc[T]) (T, error) {
	if v, ok := c.Get(key); ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	for attempt := 0; ; attempt++ {
		ch := c.group.DoChan(key, func() (interface{}, error) {
			if v, ok := c.Get(key); ok {
				return v, nil
			}
			v, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			c.Add(key, v)
			// a concurrent Add may have won
			stored, _ := c.Get(key)
			return stored, nil
		})

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				// The shared fetch belonged to a caller that gave up.
				if attempt == 0 && errors.Is(res.Err, context.Canceled) && ctx.Err() == nil {
					continue
				}
				var zero T
				return zero, res.Err
			}
			return res.Val.(T), nil
		}
	}
}
