package health

import "context"

// Pinger checks availability of a storage backend: the relational store,
// the vector index or the embedding cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
