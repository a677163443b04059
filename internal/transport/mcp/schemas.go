package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kailas-cloud/vedarag/internal/domain/query"
)

// Tool names.
const (
	ToolSearchCorpus   = "search_corpus"
	ToolListTraditions = "list_traditions"
	ToolListBooks      = "list_books"
)

// searchCorpusTool returns the tool definition for search_corpus
func searchCorpusTool() mcp.Tool {
	return mcp.Tool{
		Name: ToolSearchCorpus,
		Description: "Hybrid semantic and keyword search over philosophy tradition responses " +
			"and Vedabase scripture. Returns passages ranked by score with their parent response or verse.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language question or keywords",
					"maxLength":   query.MaxQueryLength,
				},
				"topK": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results",
					"default":     query.DefaultTopK,
					"minimum":     1,
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Corpus to search",
					"enum":        []string{"all", "philosophy", "vedabase"},
					"default":     "all",
				},
				"questionFilter": map[string]interface{}{
					"type":        "string",
					"description": "Substring of the question number, philosophy only",
				},
				"traditionFilter": map[string]interface{}{
					"type":        "string",
					"description": "Substring of the tradition name, philosophy only",
				},
				"bookFilter": map[string]interface{}{
					"type":        "string",
					"description": "Vedabase book code such as bg or sb",
				},
			},
			Required: []string{"query"},
		},
	}
}

// listTraditionsTool returns the tool definition for list_traditions
func listTraditionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolListTraditions,
		Description: "List philosophy traditions that have at least one response",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// listBooksTool returns the tool definition for list_books
func listBooksTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolListBooks,
		Description: "List Vedabase books available for bookFilter",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
