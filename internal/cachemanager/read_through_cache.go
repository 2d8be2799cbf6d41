package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache answers reads from cache and falls back to fn on a miss.
// With a non-positive TTL every read goes straight to fn and nothing is stored.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache CacheManager[K, V]
	fn    func(ctx context.Context, input I) (V, error)
	ttl   time.Duration
}

// NewReadThroughCache wraps fn with cache using ttl for stored entries.
func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	ttl time.Duration,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache: cache,
		fn:    fn,
		ttl:   ttl,
	}
}

// Enabled reports whether reads are cached at all.
func (r *ReadThroughCache[K, V, I]) Enabled() bool {
	return r.cache != nil && r.ttl > 0
}

// Get returns the cached value for key or loads it with input.
// Failed loads are never cached.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I) (V, error) {
	if !r.Enabled() {
		return r.fn(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, r.ttl)
	return value, nil
}

// Invalidate drops key so the next Get reloads it.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, key K) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, key)
}
