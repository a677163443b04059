package catalog

import (
	"context"

	"github.com/kailas-cloud/vedarag/internal/domain/corpus"
)

// Repository defines the storage contract for catalog listings.
type Repository interface {
	Traditions(ctx context.Context) ([]string, error)
	Questions(ctx context.Context, tradition string) ([]corpus.Question, error)
	Books(ctx context.Context) ([]corpus.Book, error)
}
