// Package embcache caches embedding vectors in a key-value store.
package embcache

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vedarag/internal/domain"
)

// CachedEmbedder serves embeddings from a Cache and falls back to inner.
type CachedEmbedder struct {
	inner domain.Embedder
	cache *Cache
}

var _ domain.Embedder = (*CachedEmbedder)(nil)

// New creates a caching decorator.
func New(inner domain.Embedder, cache *Cache) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: cache}
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: Cached=true and zero tokens.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if vec, ok := c.cache.Get(ctx, text); ok {
		return domain.EmbeddingResult{Embedding: vec, Cached: true}, nil
	}

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	c.cache.Put(ctx, text, result.Embedding)
	return result, nil
}

// HealthCheck delegates to the inner embedder.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	return domain.HealthCheckOf(ctx, c.inner)
}
