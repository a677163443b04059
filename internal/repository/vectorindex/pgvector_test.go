package vectorindex

import (
	"strings"
	"testing"

	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/vedarag/internal/domain/filter"
	"github.com/kailas-cloud/vedarag/internal/domain/match"
)

func TestNewPgvector_RejectsBadTable(t *testing.T) {
	for _, name := range []string{"", "entries; DROP TABLE x", "1abc", "a.b.c"} {
		if _, err := NewPgvector(nil, name); err == nil {
			t.Errorf("expected error for table %q", name)
		}
	}
	if _, err := NewPgvector(nil, "public.vector_entries"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildPgQuery_NoFilter(t *testing.T) {
	q, args := buildPgQuery("vector_entries", pgvector.NewVector(testVector()), 10, filter.Expression{})
	if strings.Contains(q, "WHERE") {
		t.Errorf("unexpected WHERE clause: %s", q)
	}
	if !strings.Contains(q, "FROM vector_entries ORDER BY embedding <=> $1::vector LIMIT $2") {
		t.Errorf("unexpected query: %s", q)
	}
	if len(args) != 2 || args[1] != 10 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildPgQuery_BookFilter(t *testing.T) {
	q, args := buildPgQuery("vector_entries", pgvector.NewVector(testVector()), 40, bookFilter(t, "sb"))
	if !strings.Contains(q, "WHERE metadata->>$3 = $4") {
		t.Errorf("unexpected query: %s", q)
	}
	if len(args) != 4 || args[2] != "book_code" || args[3] != "sb" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestRowToMatch(t *testing.T) {
	m, err := rowToMatch(pgRow{
		ID:       "abc",
		Score:    0.75,
		Metadata: []byte(`{"responseId": 12, "sectionType": "opening", "traditionName": "Advaita"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "abc" || m.Score != 0.75 {
		t.Errorf("unexpected match %+v", m)
	}
	if id, ok := m.Int64(match.KeyResponseID); !ok || id != 12 {
		t.Errorf("responseId = %d, %v", id, ok)
	}
	if s, _ := m.String(match.KeySectionType); s != "opening" {
		t.Errorf("sectionType = %q", s)
	}
}

func TestRowToMatch_BadJSON(t *testing.T) {
	if _, err := rowToMatch(pgRow{ID: "x", Metadata: []byte("{")}); err == nil {
		t.Fatal("expected decode error")
	}
}
