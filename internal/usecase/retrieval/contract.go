package retrieval

import (
	"context"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/domain/corpus"
	"github.com/kailas-cloud/vedarag/internal/domain/filter"
	"github.com/kailas-cloud/vedarag/internal/domain/match"
)

// Embedder vectorizes the normalized query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// VectorIndex returns up to k nearest matches, highest similarity first.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, k int, f filter.Expression) ([]match.Match, error)
}

// Resolver loads the relational records behind vector matches.
// A missing record is reported as domain.ErrNotFound.
type Resolver interface {
	VerseChunk(ctx context.Context, chunkID int64) (corpus.VerseChunk, error)
	ChunkText(ctx context.Context, entryID string) (string, error)
	Response(ctx context.Context, responseID int64) (corpus.Response, error)
}

// TextNormalizer turns a raw query into embedding input.
type TextNormalizer interface {
	EmbeddingText(q string) string
}
