package vectorindex

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/vedarag/internal/db"
	"github.com/kailas-cloud/vedarag/internal/domain/filter"
	"github.com/kailas-cloud/vedarag/internal/domain/match"
)

// searcher is the consumer interface for KNN search (ISP).
type searcher interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Valkey queries an FT index of HASH entries. Entry keys are KeyPrefix + id.
type Valkey struct {
	store     searcher
	indexName string
	keyPrefix string
}

// NewValkey creates a Valkey-backed index client.
func NewValkey(s searcher, indexName, keyPrefix string) *Valkey {
	return &Valkey{store: s, indexName: indexName, keyPrefix: keyPrefix}
}

// Query returns up to k nearest matches satisfying f.
func (v *Valkey) Query(ctx context.Context, vector []float32, k int, f filter.Expression) ([]match.Match, error) {
	sr, err := v.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    v.indexName,
		Filters:      f,
		Vector:       vector,
		K:            k,
		ReturnFields: match.MetadataKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", v.indexName, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	out := make([]match.Match, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		meta := make(map[string]any, len(e.Fields))
		for k, val := range e.Fields {
			meta[k] = val
		}
		out = append(out, match.Match{
			ID:       strings.TrimPrefix(e.Key, v.keyPrefix),
			Score:    e.Score,
			Metadata: meta,
		})
	}
	sortMatches(out)
	return out, nil
}
