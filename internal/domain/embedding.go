package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
	Cached       bool
}

// HealthCheckOf runs the embedder's health check when it has one.
func HealthCheckOf(ctx context.Context, e Embedder) error {
	if hc, ok := e.(HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // caller wraps
	}
	return nil
}
