package retrieval

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/ranking"
)

// DefaultMaxK caps the number of neighbours requested from the index.
const DefaultMaxK = 50

// Option configures a Service.
type Option func(*Service)

// WithNormalizer replaces the default query normalizer.
func WithNormalizer(n TextNormalizer) Option {
	return func(s *Service) { s.norm = n }
}

// WithRanker replaces the default hybrid ranker.
func WithRanker(r ranking.Ranker) Option {
	return func(s *Service) { s.ranker = r }
}

// WithMaxK sets the neighbour cap. Values <= 0 keep DefaultMaxK.
func WithMaxK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.maxK = k
		}
	}
}

// WithResolveConcurrency resolves up to n candidates at a time. Results are
// still folded in similarity order, so the scan cutoff does not depend on n.
func WithResolveConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
