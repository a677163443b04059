package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/domain/query"
	"github.com/kailas-cloud/vedarag/internal/domain/result"
)

// MCP error codes
const (
	ErrorCodeInvalidParams     = -32602 // Invalid method parameters
	ErrorCodeInternalError     = -32603 // Internal JSON-RPC error
	ErrorCodeEmbeddingProvider = -32010 // Embedding provider failed
	ErrorCodeVectorSearch      = -32011 // Vector index failed
)

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

// searchHit is the agent-facing shape of one ranked passage.
type searchHit struct {
	Score       float64 `json:"score"`
	Source      string  `json:"source"`
	SectionType string  `json:"sectionType"`
	ChunkText   string  `json:"chunkText"`

	ResponseID     string `json:"responseId,omitempty"`
	Tradition      string `json:"tradition,omitempty"`
	QuestionNumber string `json:"questionNumber,omitempty"`
	QuestionTitle  string `json:"questionTitle,omitempty"`

	BookCode    string `json:"bookCode,omitempty"`
	BookName    string `json:"bookName,omitempty"`
	Reference   string `json:"reference,omitempty"`
	Translation string `json:"translation,omitempty"`
}

// handleSearchCorpus handles the search_corpus tool invocation
func (s *Server) handleSearchCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	params := query.Params{
		Text:           getString(args, "query"),
		Source:         getString(args, "source"),
		QuestionNumber: getString(args, "questionFilter"),
		Tradition:      getString(args, "traditionFilter"),
		BookCode:       getString(args, "bookFilter"),
	}
	if k, ok := getInt(args, "topK"); ok {
		params.TopK = &k
	}

	q, err := query.New(params)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
	}

	resp, err := s.retrieval.Retrieve(ctx, q)
	if err != nil {
		s.logger.Warn("search_corpus failed", zap.Error(err))
		return nil, classify(err)
	}

	hits := make([]searchHit, len(resp.Results))
	for i, r := range resp.Results {
		hits[i] = toHit(r)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":   resp.Query,
		"count":   len(hits),
		"results": hits,
	})), nil
}

// handleListTraditions handles the list_traditions tool invocation
func (s *Server) handleListTraditions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.catalog.Traditions(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list traditions", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"traditions": names})), nil
}

// handleListBooks handles the list_books tool invocation
func (s *Server) handleListBooks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	books, err := s.catalog.Books(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list books", map[string]interface{}{
			"error": err.Error(),
		})
	}
	items := make([]map[string]string, len(books))
	for i, b := range books {
		items[i] = map[string]string{"code": b.Code, "name": b.Name}
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"books": items})), nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		return newMCPError(ErrorCodeEmbeddingProvider, domain.ErrEmbeddingProviderError.Error(), nil)
	case errors.Is(err, domain.ErrVectorSearchFailed):
		return newMCPError(ErrorCodeVectorSearch, domain.ErrVectorSearchFailed.Error(), nil)
	default:
		return newMCPError(ErrorCodeInternalError, "search failed", nil)
	}
}

func toHit(r result.Result) searchHit {
	h := searchHit{
		Score:       r.Score(),
		Source:      string(r.Source()),
		SectionType: r.SectionType(),
		ChunkText:   r.ChunkText(),
	}
	if resp, ok := r.Response(); ok {
		h.ResponseID = strconv.FormatInt(resp.ID, 10)
		h.Tradition = resp.TraditionName
		h.QuestionNumber = resp.QuestionNumber
		h.QuestionTitle = resp.QuestionTitle
	}
	if v, ok := r.Verse(); ok {
		h.BookCode = v.BookCode
		h.BookName = v.BookName
		h.Reference = fmt.Sprintf("%s %s.%s", v.BookCode, v.Chapter, v.VerseNumber)
		h.Translation = v.Translation
	}
	return h
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

func getString(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// getInt accepts JSON numbers, which decode as float64.
func getInt(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
