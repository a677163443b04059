package domain

import (
	"context"
	"errors"
	"testing"
)

type stubEmbedder struct {
	result EmbeddingResult
	err    error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (EmbeddingResult, error) {
	return s.result, s.err
}

type checkingEmbedder struct {
	stubEmbedder
	healthErr error
}

func (c *checkingEmbedder) HealthCheck(_ context.Context) error { return c.healthErr }

func TestHealthCheckOf_NoChecker(t *testing.T) {
	if err := HealthCheckOf(context.Background(), &stubEmbedder{}); err != nil {
		t.Fatalf("expected nil for embedder without health check, got %v", err)
	}
}

func TestHealthCheckOf_Delegates(t *testing.T) {
	down := errors.New("down")
	err := HealthCheckOf(context.Background(), &checkingEmbedder{healthErr: down})
	if !errors.Is(err, down) {
		t.Fatalf("expected %v, got %v", down, err)
	}
}

func TestEmbeddingUsage_Record(t *testing.T) {
	ctx, usage := NewContextWithUsage(context.Background())

	UsageFromContext(ctx).Record(EmbeddingResult{TotalTokens: 7})
	if !usage.Used || usage.TotalTokens != 7 || usage.CacheHit {
		t.Fatalf("unexpected usage after miss: %+v", usage)
	}

	UsageFromContext(ctx).Record(EmbeddingResult{Cached: true})
	if usage.TotalTokens != 7 || !usage.CacheHit {
		t.Fatalf("unexpected usage after hit: %+v", usage)
	}
}

func TestEmbeddingUsage_NilSafe(t *testing.T) {
	var u *EmbeddingUsage
	u.Record(EmbeddingResult{TotalTokens: 3})

	if got := UsageFromContext(context.Background()); got != nil {
		t.Fatalf("expected nil usage, got %+v", got)
	}
}
