// Package ranking scores retrieval candidates by blending vector similarity
// with lexical overlap against the original query.
package ranking

import (
	"strings"
	"unicode/utf8"
)

// Default ranking parameters.
const (
	DefaultVectorWeight = 0.7
	DefaultThreshold    = 0.3
	// MinTermLength: only terms strictly longer than this participate in lexical scoring.
	MinTermLength = 2
)

// Ranker is immutable after construction.
type Ranker struct {
	vectorWeight float64
	threshold    float64
}

// New returns a Ranker. Out-of-range parameters fall back to defaults.
func New(vectorWeight, threshold float64) Ranker {
	if vectorWeight < 0 || vectorWeight > 1 {
		vectorWeight = DefaultVectorWeight
	}
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return Ranker{vectorWeight: vectorWeight, threshold: threshold}
}

// Default returns a Ranker with weight 0.7 and threshold 0.3.
func Default() Ranker {
	return Ranker{vectorWeight: DefaultVectorWeight, threshold: DefaultThreshold}
}

// VectorWeight returns the weight given to vector similarity.
func (r Ranker) VectorWeight() float64 { return r.vectorWeight }

// Threshold returns the minimum raw similarity a candidate needs.
func (r Ranker) Threshold() float64 { return r.threshold }

// Accept reports whether a raw similarity clears the threshold.
// The threshold applies to raw similarity, never to the hybrid score.
func (r Ranker) Accept(similarity float64) bool {
	return similarity >= r.threshold
}

// Score blends vector similarity with a lexical score.
func (r Ranker) Score(similarity, lexical float64) float64 {
	return similarity*r.vectorWeight + lexical*(1-r.vectorWeight)
}

// Terms extracts the distinct lowercase whitespace-separated terms of q
// longer than MinTermLength characters, in first-seen order.
func Terms(q string) []string {
	fields := strings.Fields(strings.ToLower(q))
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= MinTermLength {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// Lexical is the fraction of terms found as substrings of text,
// case-insensitively. No terms scores 0.
func Lexical(terms []string, text string) float64 {
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	found := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			found++
		}
	}
	return float64(found) / float64(len(terms))
}
