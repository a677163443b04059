package retrieval

import (
	"testing"

	"github.com/kailas-cloud/vedarag/internal/domain/match"
)

func TestCandidates_Take(t *testing.T) {
	it := newCandidates([]match.Match{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	w := it.Take(2)
	if len(w) != 2 || w[0].ID != "a" || w[1].ID != "b" {
		t.Fatalf("first window = %+v", w)
	}
	w = it.Take(2)
	if len(w) != 1 || w[0].ID != "c" {
		t.Fatalf("second window = %+v", w)
	}
	if w = it.Take(2); len(w) != 0 {
		t.Fatalf("expected exhausted iterator, got %+v", w)
	}
	if it.Consumed() != 3 {
		t.Errorf("Consumed() = %d, want 3", it.Consumed())
	}
}

func TestCandidates_Empty(t *testing.T) {
	it := newCandidates(nil)
	if w := it.Take(1); len(w) != 0 {
		t.Fatalf("expected no matches, got %+v", w)
	}
	if it.Consumed() != 0 {
		t.Errorf("Consumed() = %d, want 0", it.Consumed())
	}
}
