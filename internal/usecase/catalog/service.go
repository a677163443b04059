// Package catalog lists what the corpora contain: traditions and questions
// with responses, and Vedabase books with chunks.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/vedarag/internal/domain/corpus"
)

// Service handles read-only catalog listings.
type Service struct {
	repo Repository
}

// New creates a catalog service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Traditions returns tradition names that have at least one response.
func (s *Service) Traditions(ctx context.Context) ([]string, error) {
	names, err := s.repo.Traditions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list traditions: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Questions returns answered questions, restricted to one tradition when
// tradition is non-empty.
func (s *Service) Questions(ctx context.Context, tradition string) ([]corpus.Question, error) {
	qs, err := s.repo.Questions(ctx, strings.TrimSpace(tradition))
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if qs == nil {
		qs = []corpus.Question{}
	}
	return qs, nil
}

// Books returns Vedabase books that have at least one chunk.
func (s *Service) Books(ctx context.Context) ([]corpus.Book, error) {
	books, err := s.repo.Books(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []corpus.Book{}
	}
	return books, nil
}
