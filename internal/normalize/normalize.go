// Package normalize prepares query text for embedding: Vedic concept
// expansion followed by Sanskrit transliteration folding.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ExpansionSynonyms is how many synonyms each matched concept contributes.
const ExpansionSynonyms = 2

// expansionWeight is how many times the original query is repeated ahead of
// the synonyms when a concept matches.
const expansionWeight = 3

type concept struct {
	pattern  *regexp.Regexp
	synonyms []string
}

// Normalizer is safe for concurrent use; it holds no mutable state.
type Normalizer struct {
	folds    *strings.Replacer
	concepts []concept
}

// New compiles the tables into a Normalizer.
func New(t Tables) *Normalizer {
	// strings.Replacer compares candidates in argument order at each position,
	// which preserves the phrase-before-character ordering of the table.
	pairs := make([]string, 0, 2*len(t.Folds))
	for _, f := range t.Folds {
		pairs = append(pairs, strings.ToLower(f.From), f.To)
	}

	concepts := make([]concept, 0, len(t.Concepts))
	for _, c := range t.Concepts {
		n := len(c.Synonyms)
		if n > ExpansionSynonyms {
			n = ExpansionSynonyms
		}
		concepts = append(concepts, concept{
			pattern:  regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(c.Term) + `\b`),
			synonyms: append([]string(nil), c.Synonyms[:n]...),
		})
	}

	return &Normalizer{
		folds:    strings.NewReplacer(pairs...),
		concepts: concepts,
	}
}

// Default returns a Normalizer over DefaultTables.
func Default() *Normalizer {
	return New(DefaultTables())
}

// Normalize composes to NFC, lowercases and folds transliteration variants.
// The fold table is reapplied until the text stops changing, so
// Normalize(Normalize(s)) == Normalize(s). Fold tables must not contain
// cycles, or the loop does not terminate.
func (n *Normalizer) Normalize(s string) string {
	for {
		next := n.folds.Replace(strings.ToLower(norm.NFC.String(s)))
		if next == s {
			return s
		}
		s = next
	}
}

// Expand appends up to two synonyms for every concept found as a whole word
// in the query, in dictionary order. A query with no concept comes back
// unchanged; otherwise the query is repeated three times ahead of the synonyms.
func (n *Normalizer) Expand(q string) string {
	lower := strings.ToLower(q)

	var extra []string
	for _, c := range n.concepts {
		if c.pattern.MatchString(lower) {
			extra = append(extra, c.synonyms...)
		}
	}
	if len(extra) == 0 {
		return q
	}

	parts := make([]string, 0, expansionWeight+len(extra))
	for range expansionWeight {
		parts = append(parts, q)
	}
	parts = append(parts, extra...)
	return strings.Join(parts, " ")
}

// EmbeddingText is the text sent to the embedding provider and used as the
// cache key payload: the expanded query, trimmed, then normalized.
func (n *Normalizer) EmbeddingText(q string) string {
	return n.Normalize(strings.TrimSpace(n.Expand(q)))
}
