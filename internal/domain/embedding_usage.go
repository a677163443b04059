package domain

import "context"

type embeddingUsageKey struct{}

// EmbeddingUsage collects token usage for a single retrieval call.
// The handler puts a mutable pointer into the context before calling the service;
// the embedder chain writes into it; the handler reads it for response headers.
type EmbeddingUsage struct {
	TotalTokens int
	Used        bool // embedding was requested, even when served from cache
	CacheHit    bool
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// Record stores the outcome of one embedding call.
func (u *EmbeddingUsage) Record(res EmbeddingResult) {
	if u == nil {
		return
	}
	u.TotalTokens += res.TotalTokens
	u.Used = true
	u.CacheHit = res.Cached
}
