package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/domain/corpus"
	"github.com/kailas-cloud/vedarag/internal/domain/query"
	"github.com/kailas-cloud/vedarag/internal/domain/result"
	"github.com/kailas-cloud/vedarag/internal/usecase/retrieval"
)

type stubRetriever struct {
	resp  retrieval.Response
	err   error
	last  query.Query
	calls int
}

func (s *stubRetriever) Retrieve(_ context.Context, q query.Query) (retrieval.Response, error) {
	s.calls++
	s.last = q
	if s.err != nil {
		return retrieval.Response{}, s.err
	}
	resp := s.resp
	resp.Query = q.Text()
	return resp, nil
}

type stubCatalog struct {
	traditions []string
	books      []corpus.Book
	err        error
}

func (s *stubCatalog) Traditions(context.Context) ([]string, error) { return s.traditions, s.err }
func (s *stubCatalog) Books(context.Context) ([]corpus.Book, error)  { return s.books, s.err }

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func TestSearchCorpus(t *testing.T) {
	r := &stubRetriever{resp: retrieval.Response{Results: []result.Result{
		result.NewVedabase(0.8, corpus.VerseChunk{
			Text: "As the embodied soul", ChunkType: corpus.ChunkVerseText,
			Verse: corpus.Verse{ID: 1, BookCode: "bg", Chapter: "2", VerseNumber: "13"},
		}),
		result.NewPhilosophy(0.7, "opening", "the self", corpus.Response{ID: 10, TraditionName: "Advaita Vedanta"}),
	}}}
	s := NewServer(r, &stubCatalog{}, "test", nil)

	res, err := s.handleSearchCorpus(context.Background(), callRequest(map[string]interface{}{
		"query":      "soul",
		"topK":       float64(5),
		"bookFilter": "bg",
	}))
	require.NoError(t, err)

	out := resultJSON(t, res)
	assert.Equal(t, "soul", out["query"])
	assert.EqualValues(t, 2, out["count"])
	assert.Equal(t, 5, r.last.TopK())
	assert.Equal(t, "bg", r.last.BookCode())

	hits := out["results"].([]interface{})
	first := hits[0].(map[string]interface{})
	assert.Equal(t, "bg 2.13", first["reference"])
	second := hits[1].(map[string]interface{})
	assert.Equal(t, "Advaita Vedanta", second["tradition"])
	assert.Equal(t, "10", second["responseId"])
}

func TestSearchCorpus_InvalidParams(t *testing.T) {
	r := &stubRetriever{}
	s := NewServer(r, &stubCatalog{}, "test", nil)

	for _, args := range []map[string]interface{}{
		{},
		{"query": ""},
		{"query": "x", "topK": float64(0)},
		{"query": "x", "source": "bible"},
	} {
		_, err := s.handleSearchCorpus(context.Background(), callRequest(args))
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr, "args %v", args)
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	}
	assert.Zero(t, r.calls, "retriever must not be called for invalid params")
}

func TestSearchCorpus_UpstreamErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("embed: %w", domain.ErrEmbeddingProviderError), ErrorCodeEmbeddingProvider},
		{fmt.Errorf("%w: down", domain.ErrVectorSearchFailed), ErrorCodeVectorSearch},
		{errors.New("boom"), ErrorCodeInternalError},
	}
	for _, tc := range tests {
		s := NewServer(&stubRetriever{err: tc.err}, &stubCatalog{}, "test", nil)
		_, err := s.handleSearchCorpus(context.Background(), callRequest(map[string]interface{}{"query": "dharma"}))
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, tc.code, mcpErr.Code)
	}
}

func TestListTraditions(t *testing.T) {
	s := NewServer(&stubRetriever{}, &stubCatalog{traditions: []string{"Advaita Vedanta"}}, "test", nil)

	res, err := s.handleListTraditions(context.Background(), callRequest(nil))
	require.NoError(t, err)
	out := resultJSON(t, res)
	assert.Equal(t, []interface{}{"Advaita Vedanta"}, out["traditions"])
}

func TestListBooks(t *testing.T) {
	s := NewServer(&stubRetriever{}, &stubCatalog{books: []corpus.Book{{Code: "bg", Name: "Bhagavad-gita"}}}, "test", nil)

	res, err := s.handleListBooks(context.Background(), callRequest(nil))
	require.NoError(t, err)
	out := resultJSON(t, res)
	books := out["books"].([]interface{})
	require.Len(t, books, 1)
	assert.Equal(t, "bg", books[0].(map[string]interface{})["code"])
}

func TestCatalogErrors(t *testing.T) {
	s := NewServer(&stubRetriever{}, &stubCatalog{err: errors.New("db down")}, "test", nil)

	_, err := s.handleListTraditions(context.Background(), callRequest(nil))
	assert.Error(t, err)
	_, err = s.handleListBooks(context.Background(), callRequest(nil))
	assert.Error(t, err)
}
