// Package result holds ranked retrieval results.
package result

import (
	"github.com/kailas-cloud/vedarag/internal/domain/corpus"
	"github.com/kailas-cloud/vedarag/internal/domain/source"
)

// Result is a tagged variant: a philosophy result carries a Response and
// a Vedabase result carries a Verse, never both. Use the constructors.
type Result struct {
	score       float64
	source      source.Source
	sectionType string
	chunkText   string
	response    *corpus.Response
	verse       *corpus.Verse
}

// NewPhilosophy builds a result for a philosophy chunk.
func NewPhilosophy(score float64, sectionType, chunkText string, r corpus.Response) Result {
	return Result{
		score:       score,
		source:      source.Philosophy,
		sectionType: sectionType,
		chunkText:   chunkText,
		response:    &r,
	}
}

// NewVedabase builds a result for a Vedabase chunk. The chunk type is the section type.
func NewVedabase(score float64, c corpus.VerseChunk) Result {
	v := c.Verse
	return Result{
		score:       score,
		source:      source.Vedabase,
		sectionType: c.ChunkType,
		chunkText:   c.Text,
		verse:       &v,
	}
}

// Score returns the hybrid score.
func (r Result) Score() float64 { return r.score }

// Source returns the corpus the result came from.
func (r Result) Source() source.Source { return r.source }

// SectionType returns the response section or the Vedabase chunk type.
func (r Result) SectionType() string { return r.sectionType }

// ChunkText returns the matched passage.
func (r Result) ChunkText() string { return r.chunkText }

// Response returns the parent response of a philosophy result.
func (r Result) Response() (corpus.Response, bool) {
	if r.response == nil {
		return corpus.Response{}, false
	}
	return *r.response, true
}

// Verse returns the parent verse of a Vedabase result.
func (r Result) Verse() (corpus.Verse, bool) {
	if r.verse == nil {
		return corpus.Verse{}, false
	}
	return *r.verse, true
}
