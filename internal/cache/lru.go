package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 256

// LRU is a bounded, goroutine-safe memo table.
type LRU[K comparable, V any] struct {
	lru *lru.Cache[K, V]
}

// New returns an LRU holding at most size entries.
func New[K comparable, V any](size int) *LRU[K, V] {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[K, V](size)
	if err != nil {
		panic(err)
	}
	return &LRU[K, V]{lru: c}
}

// GetOrBuild returns the cached value for key, building and storing it on a
// miss. Concurrent misses may both build; the last stored value wins, so
// build must be idempotent. Build errors are not cached.
func (c *LRU[K, V]) GetOrBuild(key K, build func() (V, error)) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		return v, err
	}
	c.lru.Add(key, v)
	return v, nil
}

// Len reports the number of cached entries.
func (c *LRU[K, V]) Len() int { return c.lru.Len() }
