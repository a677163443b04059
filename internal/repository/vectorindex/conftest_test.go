package vectorindex

import (
	"context"
	"testing"

	"github.com/kailas-cloud/vedarag/internal/db"
	"github.com/kailas-cloud/vedarag/internal/domain/filter"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}

func bookFilter(t *testing.T, code string) filter.Expression {
	t.Helper()
	c, err := filter.NewMatch("book_code", code)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	e, err := filter.NewExpression(c)
	if err != nil {
		t.Fatalf("NewExpression: %v", err)
	}
	return e
}
