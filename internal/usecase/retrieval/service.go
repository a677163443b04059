// Package retrieval turns a natural-language query into a ranked list of
// philosophy and Vedabase passages.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/domain/filter"
	"github.com/kailas-cloud/vedarag/internal/domain/match"
	"github.com/kailas-cloud/vedarag/internal/domain/query"
	"github.com/kailas-cloud/vedarag/internal/domain/result"
	"github.com/kailas-cloud/vedarag/internal/logger"
	"github.com/kailas-cloud/vedarag/internal/metrics"
	"github.com/kailas-cloud/vedarag/internal/normalize"
	"github.com/kailas-cloud/vedarag/internal/ranking"
)

// Service runs the retrieval pipeline. It holds no per-call state.
type Service struct {
	embed  Embedder
	index  VectorIndex
	store  Resolver
	norm   TextNormalizer
	ranker ranking.Ranker

	maxK        int
	concurrency int
	logger      *zap.Logger
}

// Response is the outcome of one retrieval call.
type Response struct {
	Query   string
	Results []result.Result
}

// New creates a retrieval service.
func New(embed Embedder, index VectorIndex, store Resolver, opts ...Option) *Service {
	s := &Service{
		embed:       embed,
		index:       index,
		store:       store,
		norm:        normalize.Default(),
		ranker:      ranking.Default(),
		maxK:        DefaultMaxK,
		concurrency: 1,
		logger:      zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Retrieve embeds q, pulls nearest neighbours, resolves and scores them, and
// returns at most q.TopK() results sorted by score descending. An empty list
// is a successful outcome.
func (s *Service) Retrieve(ctx context.Context, q query.Query) (Response, error) {
	start := time.Now()
	resp, err := s.retrieve(ctx, q)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RetrievalDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.RetrievalResults.Observe(float64(len(resp.Results)))
	}
	return resp, err
}

func (s *Service) retrieve(ctx context.Context, q query.Query) (Response, error) {
	log := logger.FromContextOr(ctx, s.logger)

	text := s.norm.EmbeddingText(q.Raw())
	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		if !errors.Is(err, domain.ErrEmbeddingProviderError) {
			err = fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
		}
		return Response{}, fmt.Errorf("embed query: %w", err)
	}

	pushdown, err := bookPushdown(q.BookCode())
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	k := q.VectorK(s.maxK)
	matches, err := s.index.Query(ctx, emb.Embedding, k, pushdown)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", domain.ErrVectorSearchFailed, err)
	}

	terms := ranking.Terms(q.Text())
	it := newCandidates(matches)
	acc := s.scan(ctx, q, terms, it)

	results := rank(acc, q.TopK())

	log.Debug("Retrieval completed",
		zap.Int("vector_k", k),
		zap.Int("matches", len(matches)),
		zap.Int("examined", it.Consumed()),
		zap.Int("results", len(results)),
		zap.Bool("cache_hit", emb.Cached),
	)

	return Response{Query: q.Raw(), Results: results}, nil
}

// rank stable-sorts by score descending and truncates to topK.
func rank(acc []result.Result, topK int) []result.Result {
	slices.SortStableFunc(acc, func(a, b result.Result) int {
		switch {
		case a.Score() > b.Score():
			return -1
		case a.Score() < b.Score():
			return 1
		default:
			return 0
		}
	})
	if len(acc) > topK {
		acc = acc[:topK]
	}
	return acc
}

// bookPushdown builds the index-side predicate for a book filter. Index tags
// are stored lowercase; the resolved record is re-checked in process.
func bookPushdown(bookCode string) (filter.Expression, error) {
	if bookCode == "" {
		return filter.NewExpression()
	}
	c, err := filter.NewMatch(match.KeyBookCode, strings.ToLower(bookCode))
	if err != nil {
		return filter.Expression{}, fmt.Errorf("book filter: %w", err)
	}
	return filter.NewExpression(c)
}
