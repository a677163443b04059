package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/vedarag/internal/domain/corpus"
)

// --- Mocks ---

type mockRepo struct {
	traditions    []string
	questions     []corpus.Question
	books         []corpus.Book
	err           error
	lastTradition string
}

func (m *mockRepo) Traditions(_ context.Context) ([]string, error) {
	return m.traditions, m.err
}

func (m *mockRepo) Questions(_ context.Context, tradition string) ([]corpus.Question, error) {
	m.lastTradition = tradition
	return m.questions, m.err
}

func (m *mockRepo) Books(_ context.Context) ([]corpus.Book, error) {
	return m.books, m.err
}

// --- Tests ---

func TestTraditions(t *testing.T) {
	svc := New(&mockRepo{traditions: []string{"Advaita Vedanta", "Stoicism"}})
	got, err := svc.Traditions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "Advaita Vedanta" {
		t.Errorf("unexpected traditions %v", got)
	}
}

func TestTraditions_EmptyIsNonNil(t *testing.T) {
	got, err := New(&mockRepo{}).Traditions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Error("expected empty, non-nil slice")
	}
}

func TestQuestions_TrimsTradition(t *testing.T) {
	repo := &mockRepo{questions: []corpus.Question{{Number: "1.1", Title: "What is the self?"}}}
	got, err := New(repo).Questions(context.Background(), "  Advaita Vedanta ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastTradition != "Advaita Vedanta" {
		t.Errorf("tradition passed = %q", repo.lastTradition)
	}
	if len(got) != 1 || got[0].Number != "1.1" {
		t.Errorf("unexpected questions %v", got)
	}
}

func TestBooks(t *testing.T) {
	svc := New(&mockRepo{books: []corpus.Book{{Code: "bg", Name: "Bhagavad-gita As It Is"}}})
	got, err := svc.Books(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Code != "bg" {
		t.Errorf("unexpected books %v", got)
	}
}

func TestErrorsAreWrapped(t *testing.T) {
	cause := errors.New("db down")
	svc := New(&mockRepo{err: cause})

	if _, err := svc.Traditions(context.Background()); !errors.Is(err, cause) {
		t.Errorf("Traditions: expected wrapped cause, got %v", err)
	}
	if _, err := svc.Questions(context.Background(), ""); !errors.Is(err, cause) {
		t.Errorf("Questions: expected wrapped cause, got %v", err)
	}
	if _, err := svc.Books(context.Background()); !errors.Is(err, cause) {
		t.Errorf("Books: expected wrapped cause, got %v", err)
	}
}
