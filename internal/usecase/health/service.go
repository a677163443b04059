package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used as report keys.
const (
	ComponentDatabase    = "database"
	ComponentVectorIndex = "vector_index"
	ComponentCache       = "cache"
	ComponentEmbedding   = "embedding"
)

// DefaultCheckTimeout bounds each individual check.
const DefaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        Pinger
	index     Pinger
	cache     Pinger
	embedding EmbeddingChecker
	timeout   time.Duration
}

// Option configures optional components.
type Option func(*Service)

// WithVectorIndex adds a vector index check.
func WithVectorIndex(p Pinger) Option { return func(s *Service) { s.index = p } }

// WithCache adds an embedding cache check.
func WithCache(p Pinger) Option { return func(s *Service) { s.cache = p } }

// WithEmbedding adds an embedding provider check.
func WithEmbedding(c EmbeddingChecker) Option { return func(s *Service) { s.embedding = c } }

// WithTimeout overrides DefaultCheckTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Service. The relational store is always checked.
func New(db Pinger, opts ...Option) *Service {
	s := &Service{db: db, timeout: DefaultCheckTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 4)

	checks[ComponentDatabase] = s.run(ctx, s.db.Ping)
	if s.index != nil {
		checks[ComponentVectorIndex] = s.run(ctx, s.index.Ping)
	}
	if s.cache != nil {
		checks[ComponentCache] = s.run(ctx, s.cache.Ping)
	}
	if s.embedding != nil {
		checks[ComponentEmbedding] = s.run(ctx, s.embedding.HealthCheck)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, check func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := check(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
