// Package source names the two corpora a retrieval can draw from.
package source

import (
	"fmt"
	"strings"
)

// Source identifies a corpus.
type Source string

const (
	// Philosophy is the Q&A corpus of tradition responses.
	Philosophy Source = "philosophy"
	// Vedabase is the scripture corpus of verses and purports.
	Vedabase Source = "vedabase"
	// All selects both corpora. Only valid as a request scope.
	All Source = "all"
)

// Parse converts a request value into a scope. Empty means All.
func Parse(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case "", All:
		return All, nil
	case Philosophy:
		return Philosophy, nil
	case Vedabase:
		return Vedabase, nil
	default:
		return "", fmt.Errorf("unknown source %q (want philosophy, vedabase or all)", s)
	}
}

// Admits reports whether a candidate from corpus c passes scope s.
func (s Source) Admits(c Source) bool {
	return s == All || s == c
}
