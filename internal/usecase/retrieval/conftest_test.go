package retrieval

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/domain/corpus"
	"github.com/kailas-cloud/vedarag/internal/domain/filter"
	"github.com/kailas-cloud/vedarag/internal/domain/match"
	"github.com/kailas-cloud/vedarag/internal/domain/query"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	texts  []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.texts = append(m.texts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	if m.result.Embedding == nil {
		return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}, TotalTokens: 3}, nil
	}
	return m.result, nil
}

type mockIndex struct {
	matches []match.Match
	err     error

	calls   int
	lastK   int
	lastVec []float32
	lastF   filter.Expression
}

func (m *mockIndex) Query(_ context.Context, vec []float32, k int, f filter.Expression) ([]match.Match, error) {
	m.calls++
	m.lastK = k
	m.lastVec = vec
	m.lastF = f
	return m.matches, m.err
}

// mockResolver serves records from maps. Missing entries are domain.ErrNotFound.
type mockResolver struct {
	chunks    map[int64]corpus.VerseChunk
	texts     map[string]string
	responses map[int64]corpus.Response
	failWith  error

	mu       sync.Mutex
	resolved []string
}

func newMockResolver() *mockResolver {
	return &mockResolver{
		chunks:    map[int64]corpus.VerseChunk{},
		texts:     map[string]string{},
		responses: map[int64]corpus.Response{},
	}
}

func (m *mockResolver) record(id string) {
	m.mu.Lock()
	m.resolved = append(m.resolved, id)
	m.mu.Unlock()
}

func (m *mockResolver) VerseChunk(_ context.Context, id int64) (corpus.VerseChunk, error) {
	m.record("chunk:" + strconv.FormatInt(id, 10))
	if m.failWith != nil {
		return corpus.VerseChunk{}, m.failWith
	}
	c, ok := m.chunks[id]
	if !ok {
		return corpus.VerseChunk{}, fmt.Errorf("chunk %d: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func (m *mockResolver) ChunkText(_ context.Context, entryID string) (string, error) {
	m.record("entry:" + entryID)
	if m.failWith != nil {
		return "", m.failWith
	}
	t, ok := m.texts[entryID]
	if !ok {
		return "", fmt.Errorf("entry %s: %w", entryID, domain.ErrNotFound)
	}
	return t, nil
}

func (m *mockResolver) Response(_ context.Context, id int64) (corpus.Response, error) {
	if m.failWith != nil {
		return corpus.Response{}, m.failWith
	}
	r, ok := m.responses[id]
	if !ok {
		return corpus.Response{}, fmt.Errorf("response %d: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

// addPhilosophy registers a resolvable philosophy match.
func (m *mockResolver) addPhilosophy(id string, responseID int64, text string) {
	m.texts[id] = text
	m.responses[responseID] = corpus.Response{
		ID:             responseID,
		TraditionName:  "Advaita Vedanta",
		QuestionNumber: "1.1",
		QuestionTitle:  "What is the self?",
		Opening:        "The self is consciousness.",
	}
}

// addVerse registers a resolvable Vedabase chunk.
func (m *mockResolver) addVerse(chunkID int64, book, text string) {
	m.chunks[chunkID] = corpus.VerseChunk{
		Text:      text,
		ChunkType: corpus.ChunkPurport,
		Verse: corpus.Verse{
			ID:          chunkID * 10,
			BookCode:    book,
			BookName:    "Book " + book,
			Chapter:     "2",
			VerseNumber: "13",
			Translation: "As the embodied soul continuously passes...",
		},
	}
}

func philosophyMatch(id string, score float64, responseID int64) match.Match {
	return match.Match{
		ID:    id,
		Score: score,
		Metadata: map[string]any{
			match.KeySource:         "philosophy",
			match.KeyResponseID:     strconv.FormatInt(responseID, 10),
			match.KeySectionType:    "opening",
			match.KeyQuestionNumber: "1.1",
			match.KeyTraditionName:  "Advaita Vedanta",
		},
	}
}

func vedabaseMatch(id string, score float64, chunkID int64, book string) match.Match {
	return match.Match{
		ID:    id,
		Score: score,
		Metadata: map[string]any{
			match.KeyChunkID:  float64(chunkID),
			match.KeyBookCode: book,
		},
	}
}

func mustQuery(p query.Params) query.Query {
	q, err := query.New(p)
	if err != nil {
		panic(err)
	}
	return q
}

func intPtr(n int) *int { return &n }
