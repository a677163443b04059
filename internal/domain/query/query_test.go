package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/domain/source"
)

func intPtr(v int) *int { return &v }

func TestNew_Defaults(t *testing.T) {
	q, err := New(Params{Text: "  what is dharma  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Raw() != "  what is dharma  " {
		t.Errorf("Raw() = %q", q.Raw())
	}
	if q.Text() != "what is dharma" {
		t.Errorf("Text() = %q", q.Text())
	}
	if q.TopK() != DefaultTopK {
		t.Errorf("TopK() = %d, want %d", q.TopK(), DefaultTopK)
	}
	if q.Scope() != source.All {
		t.Errorf("Scope() = %q, want all", q.Scope())
	}
	if q.BookCode() != "" || q.Tradition() != "" || q.QuestionNumber() != "" {
		t.Error("expected empty filters")
	}
}

func TestNew_Filters(t *testing.T) {
	q, err := New(Params{
		Text:           "karma",
		Source:         "vedabase",
		BookCode:       "bg",
		Tradition:      "Stoic",
		QuestionNumber: "12",
		TopK:           intPtr(5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Scope() != source.Vedabase || q.BookCode() != "bg" || q.TopK() != 5 {
		t.Errorf("unexpected query: %+v", q)
	}
	if q.Tradition() != "Stoic" || q.QuestionNumber() != "12" {
		t.Errorf("unexpected philosophy filters: %+v", q)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"empty text", Params{Text: ""}},
		{"whitespace text", Params{Text: "   \t"}},
		{"zero topK", Params{Text: "q", TopK: intPtr(0)}},
		{"negative topK", Params{Text: "q", TopK: intPtr(-3)}},
		{"unknown source", Params{Text: "q", Source: "quran"}},
		{"too long", Params{Text: strings.Repeat("a", MaxQueryLength+1)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.p)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestVectorK(t *testing.T) {
	tests := []struct {
		topK, maxK, want int
	}{
		{20, 50, 40},
		{25, 50, 50},
		{40, 50, 50},
		{1, 50, 2},
		{30, 0, 60},
	}
	for _, tc := range tests {
		q, err := New(Params{Text: "q", TopK: intPtr(tc.topK)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := q.VectorK(tc.maxK); got != tc.want {
			t.Errorf("VectorK(topK=%d, max=%d) = %d, want %d", tc.topK, tc.maxK, got, tc.want)
		}
	}
}
