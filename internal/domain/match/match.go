// Package match holds nearest-neighbour hits returned by a vector index.
package match

import (
	"github.com/spf13/cast"

	"github.com/kailas-cloud/vedarag/internal/domain/source"
)

// Metadata keys written by the ingestion pipeline.
const (
	KeySource         = "source"
	KeyChunkID        = "chunk_id"
	KeyBookCode       = "book_code"
	KeyVerseID        = "verse_id"
	KeyChunkType      = "chunk_type"
	KeyResponseID     = "responseId"
	KeySectionType    = "sectionType"
	KeyQuestionNumber = "questionNumber"
	KeyTraditionName  = "traditionName"
)

// MetadataKeys lists every key a backend should return with a match.
var MetadataKeys = []string{
	KeySource, KeyChunkID, KeyBookCode, KeyVerseID, KeyChunkType,
	KeyResponseID, KeySectionType, KeyQuestionNumber, KeyTraditionName,
}

// Match is one vector index hit. Score is raw similarity and is not clamped.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]any
}

// String returns metadata[key] coerced to a string. Missing or
// non-scalar values yield "", false.
func (m Match) String(key string) (string, bool) {
	v, ok := m.Metadata[key]
	if !ok || v == nil {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

// Int64 returns metadata[key] coerced to an integer id.
func (m Match) Int64(key string) (int64, bool) {
	v, ok := m.Metadata[key]
	if !ok || v == nil {
		return 0, false
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Source classifies the match: explicit "source" metadata wins, then the
// presence of a book code implies Vedabase, otherwise Philosophy.
func (m Match) Source() source.Source {
	if s, ok := m.String(KeySource); ok {
		switch source.Source(s) {
		case source.Vedabase:
			return source.Vedabase
		case source.Philosophy:
			return source.Philosophy
		}
	}
	if _, ok := m.String(KeyBookCode); ok {
		return source.Vedabase
	}
	return source.Philosophy
}
