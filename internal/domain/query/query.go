package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/domain/source"
)

// Query parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in bytes.
	MaxQueryLength = 4096
	DefaultTopK    = 20
)

// Params is the raw, unvalidated input of a retrieval call.
// A nil TopK selects DefaultTopK.
type Params struct {
	Text           string
	Source         string
	BookCode       string
	Tradition      string
	QuestionNumber string
	TopK           *int
}

// Query is a validated retrieval request.
type Query struct {
	raw            string
	text           string
	scope          source.Source
	bookCode       string
	tradition      string
	questionNumber string
	topK           int
}

// New validates raw parameters. Every failure wraps domain.ErrInvalidRequest.
func New(p Params) (Query, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return Query{}, fmt.Errorf("query is required: %w", domain.ErrInvalidRequest)
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d bytes): %w", MaxQueryLength, domain.ErrInvalidRequest)
	}

	scope, err := source.Parse(p.Source)
	if err != nil {
		return Query{}, fmt.Errorf("%s: %w", err.Error(), domain.ErrInvalidRequest)
	}

	topK := DefaultTopK
	if p.TopK != nil {
		if *p.TopK <= 0 {
			return Query{}, fmt.Errorf("topK must be positive, got %d: %w", *p.TopK, domain.ErrInvalidRequest)
		}
		topK = *p.TopK
	}

	return Query{
		raw:            p.Text,
		text:           text,
		scope:          scope,
		bookCode:       strings.TrimSpace(p.BookCode),
		tradition:      strings.TrimSpace(p.Tradition),
		questionNumber: strings.TrimSpace(p.QuestionNumber),
		topK:           topK,
	}, nil
}

// Raw returns the query text exactly as received, surrounding whitespace included.
func (q Query) Raw() string { return q.raw }

// Text returns the trimmed query text.
func (q Query) Text() string { return q.text }

// Scope returns which corpora are admitted.
func (q Query) Scope() source.Source { return q.scope }

// BookCode returns the Vedabase book filter, empty when unset.
func (q Query) BookCode() string { return q.bookCode }

// Tradition returns the tradition-name substring filter, empty when unset.
func (q Query) Tradition() string { return q.tradition }

// QuestionNumber returns the question-number substring filter, empty when unset.
func (q Query) QuestionNumber() string { return q.questionNumber }

// TopK returns the maximum number of results.
func (q Query) TopK() int { return q.topK }

// VectorK is the number of nearest neighbours to request: twice topK, capped at maxK.
func (q Query) VectorK(maxK int) int {
	k := 2 * q.topK
	if maxK > 0 && k > maxK {
		k = maxK
	}
	return k
}
